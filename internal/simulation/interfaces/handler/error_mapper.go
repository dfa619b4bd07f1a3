package handler

import (
	"VillageWars/internal/shared/transport"
	"VillageWars/internal/simulation/app"
	"VillageWars/internal/simulation/domain"
	"VillageWars/modules/kit/errx"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const sysBusyMsg = "系统繁忙，请稍后重试"

func mapBizErrToClientCode(err error) transport.BizCode {
	switch {
	case errors.Is(err, app.ErrReqParamERR),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInvalidRoster),
		errors.Is(err, domain.ErrInvalidMovementKind),
		errors.Is(err, domain.ErrUnitTypeUnknown),
		errors.Is(err, domain.ErrInvalidTarget):
		return transport.InvalidParam
	case errors.Is(err, domain.ErrNotOwner):
		return transport.Forbidden
	case errors.Is(err, domain.ErrVillageNotFound),
		errors.Is(err, domain.ErrBuildingNotFound),
		errors.Is(err, domain.ErrQueueEntryNotFound),
		errors.Is(err, domain.ErrMovementNotFound),
		errors.Is(err, domain.ErrReportNotFound):
		return transport.NotFound
	case errors.Is(err, domain.ErrTooLate),
		errors.Is(err, domain.ErrCancelWindowPassed),
		errors.Is(err, domain.ErrAlreadyClaimed):
		return transport.TooLate
	default:
		return transport.Rejected
	}
}

func mapTechErrToClientCode(err error) transport.BizCode {
	switch {
	case err == nil:
		return transport.OK
	case errors.Is(err, app.ErrTimeout):
		return transport.Timeout
	case errors.Is(err, app.ErrUnavailable),
		errors.Is(err, domain.ErrStorageConflict):
		return transport.Unavailable
	default:
		return transport.SystemError
	}
}

// classify 返回业务码、对外文案、reason 以及是否为业务拒绝。
func classify(err error) (transport.BizCode, string, string, bool) {
	reason := app.GetErrorReasonCode(err)
	if app.IsRejection(err) {
		msg := ""
		if e := errx.As(err); e != nil {
			msg = e.Msg()
		}
		return mapBizErrToClientCode(err), msg, reason, true
	}
	return mapTechErrToClientCode(err), sysBusyMsg, reason, false
}

func toRPCError(err error) error {
	switch {
	case app.IsRejection(err):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, app.ErrTimeout):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, app.ErrUnavailable), errors.Is(err, domain.ErrStorageConflict):
		return status.Error(codes.Unavailable, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
