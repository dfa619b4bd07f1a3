package app

import (
	"VillageWars/modules/kit/errx"
	"context"
	"errors"
)

type Code = errx.Code

type Error = errx.Error

var (
	ErrInternalServer = errx.ErrInternal
	ErrUnavailable    = errx.ErrUnavailable
	ErrTimeout        = errx.ErrTimeout
	ErrReqParamERR    = errx.ErrReqParamERR
)

// GetErrorReasonCode 取出错误上挂的 reason，没有返回空串。
func GetErrorReasonCode(err error) string {
	return errx.ReasonOf(err)
}

// IsFatal 判断错误是否应终止整批结算：存储不可用、超时或 ctx 取消。
// 其余错误只影响单个实体。
func IsFatal(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, errx.ErrUnavailable), errors.Is(err, errx.ErrTimeout):
		return true
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return true
	default:
		return false
	}
}

// IsRejection 判断是否为业务拒绝。
func IsRejection(err error) bool {
	return errx.IsBiz(err)
}

// toSys 把非 errx 的错误包成内部错误，已是 errx 的保持原样。
func toSys(err error) error {
	return errx.Wrap(err)
}

