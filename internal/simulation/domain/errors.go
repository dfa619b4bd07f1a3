package domain

import "VillageWars/modules/kit/errx"

// Code 表示领域错误码。
//
// 约定：
// - 业务拒绝（资源不足、目标非法等）使用 NewBiz，不带栈
// - 不变量被破坏属于逻辑错误，使用 NewSys，便于告警
type Code = errx.Code

const (
	CodeVillageNotFound       Code = "SIM_VILLAGE_NOT_FOUND"
	CodeBuildingNotFound      Code = "SIM_BUILDING_NOT_FOUND"
	CodeUnitTypeUnknown       Code = "SIM_UNIT_TYPE_UNKNOWN"
	CodeInsufficientResources Code = "SIM_INSUFFICIENT_RESOURCES"
	CodeTroopsUnavailable     Code = "SIM_TROOPS_UNAVAILABLE"
	CodeInvalidTarget         Code = "SIM_INVALID_TARGET"
	CodeInvalidRoster         Code = "SIM_INVALID_ROSTER"
	CodeInvalidMovementKind   Code = "SIM_INVALID_MOVEMENT_KIND"
	CodeInvalidQuantity       Code = "SIM_INVALID_QUANTITY"
	CodeSlotBusy              Code = "SIM_SLOT_BUSY"
	CodeMaxLevel              Code = "SIM_MAX_LEVEL"
	CodeRequirementNotMet     Code = "SIM_REQUIREMENT_NOT_MET"
	CodeQueueEntryNotFound    Code = "SIM_QUEUE_ENTRY_NOT_FOUND"
	CodeMovementNotFound      Code = "SIM_MOVEMENT_NOT_FOUND"
	CodeReportNotFound        Code = "SIM_REPORT_NOT_FOUND"
	CodeTooLate               Code = "SIM_TOO_LATE"
	CodeNotCancellable        Code = "SIM_NOT_CANCELLABLE"
	CodeCancelWindowPassed    Code = "SIM_CANCEL_WINDOW_PASSED"
	CodeNotOwner              Code = "SIM_NOT_OWNER"
	CodeInvariantViolation    Code = "SIM_INVARIANT_VIOLATION"
	CodeAlreadyClaimed        Code = "SIM_ALREADY_CLAIMED"
	CodeCoordinateTaken       Code = "SIM_COORDINATE_TAKEN"
)

type Error = errx.Error

var (
	ErrVillageNotFound       = errx.NewBiz(CodeVillageNotFound, "村庄不存在")
	ErrBuildingNotFound      = errx.NewBiz(CodeBuildingNotFound, "建筑不存在")
	ErrUnitTypeUnknown       = errx.NewBiz(CodeUnitTypeUnknown, "未知兵种")
	ErrInsufficientResources = errx.NewBiz(CodeInsufficientResources, "资源不足")
	ErrTroopsUnavailable     = errx.NewBiz(CodeTroopsUnavailable, "兵力不足")
	ErrInvalidTarget         = errx.NewBiz(CodeInvalidTarget, "目标村庄非法")
	ErrInvalidRoster         = errx.NewBiz(CodeInvalidRoster, "出兵名单非法")
	ErrInvalidMovementKind   = errx.NewBiz(CodeInvalidMovementKind, "行军类型非法")
	ErrInvalidQuantity       = errx.NewBiz(CodeInvalidQuantity, "数量非法")
	ErrSlotBusy              = errx.NewBiz(CodeSlotBusy, "该建筑正在升级")
	ErrMaxLevel              = errx.NewBiz(CodeMaxLevel, "已达最高等级")
	ErrRequirementNotMet     = errx.NewBiz(CodeRequirementNotMet, "前置建筑等级不足")
	ErrQueueEntryNotFound    = errx.NewBiz(CodeQueueEntryNotFound, "队列条目不存在")
	ErrMovementNotFound      = errx.NewBiz(CodeMovementNotFound, "行军不存在")
	ErrReportNotFound        = errx.NewBiz(CodeReportNotFound, "战报不存在")
	ErrTooLate               = errx.NewBiz(CodeTooLate, "已结算，无法取消")
	ErrNotCancellable        = errx.NewBiz(CodeNotCancellable, "该行军不可取消")
	ErrCancelWindowPassed    = errx.NewBiz(CodeCancelWindowPassed, "已超过可取消时间")
	ErrNotOwner              = errx.NewBiz(CodeNotOwner, "无权操作")
	ErrAlreadyClaimed        = errx.NewBiz(CodeAlreadyClaimed, "已被其他结算占用")
	ErrCoordinateTaken       = errx.NewBiz(CodeCoordinateTaken, "该坐标已有村庄")
	ErrInvariantViolation    = errx.NewSys(CodeInvariantViolation, "数据不变量被破坏")
	ErrSystemUnavailable     = errx.ErrUnavailable
	// ErrStorageConflict 是单个实体上的死锁、锁等待超时或唯一键冲突，只影响该实体，下个 tick 重试。
	ErrStorageConflict       = errx.ErrConflict
)
