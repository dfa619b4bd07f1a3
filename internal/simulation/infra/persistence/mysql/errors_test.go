package mysql

import (
	"VillageWars/internal/simulation/app"
	"VillageWars/internal/simulation/domain"
	"VillageWars/modules/kit/errx"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"testing"

	mysqldrv "github.com/go-sql-driver/mysql"
)

func TestInfraErr_已分类错误原样返回(t *testing.T) {
	if err := infraErr("op", domain.ErrVillageNotFound); !errors.Is(err, domain.ErrVillageNotFound) {
		t.Fatalf("业务错误应原样返回: %v", err)
	}
	if infraErr("op", nil) != nil {
		t.Fatalf("nil 应返回 nil")
	}
}

func TestInfraErr_按驱动错误归类(t *testing.T) {
	cases := []struct {
		name  string
		err   error
		want  error
		fatal bool
	}{
		{"死锁", &mysqldrv.MySQLError{Number: 1213, Message: "Deadlock found"}, domain.ErrStorageConflict, false},
		{"锁等待超时", fmt.Errorf("exec: %w", &mysqldrv.MySQLError{Number: 1205}), domain.ErrStorageConflict, false},
		{"唯一键冲突", &mysqldrv.MySQLError{Number: 1062, Message: "Duplicate entry '1' for key 'PRIMARY'"}, domain.ErrStorageConflict, false},
		{"未知列", &mysqldrv.MySQLError{Number: 1054}, errx.ErrInternal, false},
		{"只读实例", &mysqldrv.MySQLError{Number: 1290}, domain.ErrSystemUnavailable, true},
		{"断连", driver.ErrBadConn, domain.ErrSystemUnavailable, true},
		{"连接失效", mysqldrv.ErrInvalidConn, domain.ErrSystemUnavailable, true},
		{"网络错误", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}, domain.ErrSystemUnavailable, true},
		{"其他", errors.New("boom"), errx.ErrInternal, false},
	}
	for _, c := range cases {
		err := infraErr("repo.x", c.err, "village_id", 1)
		if !errors.Is(err, c.want) {
			t.Fatalf("%s: 期望 %v, got=%v", c.name, c.want, err)
		}
		if app.IsFatal(err) != c.fatal {
			t.Fatalf("%s: IsFatal 期望 %v", c.name, c.fatal)
		}
		if app.IsRejection(err) {
			t.Fatalf("%s: 存储错误不应是业务拒绝", c.name)
		}
		if !errors.Is(err, c.err) {
			t.Fatalf("%s: 应保留原始 cause", c.name)
		}
	}
}

func TestIsDuplicateOn_只认指定索引(t *testing.T) {
	xy := &mysqldrv.MySQLError{Number: 1062, Message: "Duplicate entry '1-3-4' for key 'village.uk_village_xy'"}
	if !isDuplicateOn(fmt.Errorf("create: %w", xy), "uk_village_xy") {
		t.Fatalf("应识别坐标唯一索引冲突")
	}
	pk := &mysqldrv.MySQLError{Number: 1062, Message: "Duplicate entry '9' for key 'PRIMARY'"}
	if isDuplicateOn(pk, "uk_village_xy") {
		t.Fatalf("主键冲突不是坐标冲突")
	}
	if isDuplicateOn(&mysqldrv.MySQLError{Number: 1213}, "uk_village_xy") {
		t.Fatalf("死锁不是唯一键冲突")
	}
}
