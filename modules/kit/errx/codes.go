package errx

// 系统类错误码，所有服务共用。业务拒绝码（INSUFFICIENT_RESOURCES、TOO_LATE 等）
// 由各业务域在自己的 domain 包里定义。
const (
	CodeInternal      Code = "INTERNAL_ERROR"
	CodeUnavailable   Code = "SERVICE_UNAVAILABLE"
	CodeTimeout       Code = "TIMEOUT"
	// CodeConflict 单实体上的锁冲突或唯一键冲突，整批结算不因此中止。
	CodeConflict      Code = "CONFLICT"
	CodeReqParamError Code = "REQ_PARAM_ERROR"
)

var (
	ErrInternal    = NewSys(CodeInternal, "服务器内部错误")
	ErrUnavailable = NewSys(CodeUnavailable, "存储或依赖不可用")
	ErrTimeout     = NewSys(CodeTimeout, "请求超时")
	ErrConflict    = NewSys(CodeConflict, "并发写冲突")
	ErrReqParamERR = NewBiz(CodeReqParamError, "请求参数错误")
)
