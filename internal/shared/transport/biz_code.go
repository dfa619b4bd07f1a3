package transport

// BizCode 表示业务码的强类型封装，用于在日志上下文中减少误传风险。
// 分段约定与 logx.ReportAccess 一致：0 成功，1~499 业务拒绝，>=500 系统错误。
type BizCode int

const (
	OK BizCode = 0

	InvalidParam BizCode = 400
	Unauthorized BizCode = 401
	Forbidden    BizCode = 403
	NotFound     BizCode = 404
	TooLate      BizCode = 409
	Rejected     BizCode = 422
	SystemError  BizCode = 500
	Unavailable  BizCode = 503
	Timeout      BizCode = 504
)
