package mysql

import (
	"VillageWars/internal/simulation/domain"
	"VillageWars/modules/kit/errx"
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"
	"strings"

	mysqldrv "github.com/go-sql-driver/mysql"
)

// MySQL 服务端错误号。
const (
	erDupEntry          = 1062
	erLockWaitTimeout   = 1205
	erLockDeadlock      = 1213
	erConCount          = 1040
	erServerShutdown    = 1053
	erOptionPreventsRun = 1290 // --read-only
	erReadOnlyMode      = 1836
)

// infraErr 按驱动错误归类：
//   - 连接层故障（断连、网络错误、只读、连接数打满）为 ErrSystemUnavailable，整批中止
//   - 死锁、锁等待超时、唯一键冲突为 ErrStorageConflict，只影响当前实体
//   - 其余为 ErrInternal
//
// 已是 errx 或 ctx 错误的原样返回。
func infraErr(op string, err error, kv ...any) error {
	if err == nil {
		return nil
	}
	if errx.As(err) != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	e := classify(err).WithData("op", op)
	for i := 0; i+1 < len(kv); i += 2 {
		if k, ok := kv[i].(string); ok {
			e = e.WithData(k, kv[i+1])
		}
	}
	return e.WithCause(err)
}

func classify(err error) *errx.Error {
	var me *mysqldrv.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case erLockDeadlock, erLockWaitTimeout, erDupEntry:
			return domain.ErrStorageConflict.WithData("mysql_errno", int(me.Number))
		case erConCount, erServerShutdown, erOptionPreventsRun, erReadOnlyMode:
			return domain.ErrSystemUnavailable.WithData("mysql_errno", int(me.Number))
		default:
			return errx.ErrInternal.WithData("mysql_errno", int(me.Number))
		}
	}
	var ne net.Error
	switch {
	case errors.Is(err, driver.ErrBadConn),
		errors.Is(err, mysqldrv.ErrInvalidConn),
		errors.Is(err, sql.ErrConnDone),
		errors.As(err, &ne):
		return domain.ErrSystemUnavailable
	default:
		return errx.ErrInternal
	}
}

// isDuplicateOn 判断是否撞上指定唯一索引。
func isDuplicateOn(err error, index string) bool {
	var me *mysqldrv.MySQLError
	return errors.As(err, &me) && me.Number == erDupEntry && strings.Contains(me.Message, index)
}
