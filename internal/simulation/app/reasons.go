package app

type Reason struct {
	Code    string
	Message string
}

func (r Reason) ReasonCode() string {
	return r.Code
}

func NewReason(c, m string) Reason {
	return Reason{
		Code:    c,
		Message: m,
	}
}

var (
	// 业务拒绝 reason，由接口层透传给调用方。
	ReasonCostUnaffordable   = NewReason("COST_UNAFFORDABLE", "资源不足以支付")
	ReasonTroopsCommitted    = NewReason("TROOPS_COMMITTED", "部队已在途或数量不足")
	ReasonTargetSelf         = NewReason("TARGET_SELF", "不能以自己的村庄为目标")
	ReasonTargetOwnVillage   = NewReason("TARGET_OWN_VILLAGE", "不能攻击自己的村庄")
	ReasonAlreadyResolved    = NewReason("ALREADY_RESOLVED", "已被结算")
	ReasonAlreadyDue         = NewReason("ALREADY_DUE", "已到期，等待结算")
	ReasonReturnNotCancelled = NewReason("RETURN_NOT_CANCELLABLE", "回程行军不可取消")
)

var (
	// 技术错误 reason，用于日志与排障。
	ReasonResourcePassFail  = NewReason("RESOURCE_PASS_FAIL", "资源推进失败")
	ReasonResourceRejected  = NewReason("RESOURCE_ROW_REJECTED", "资源行非法，跳过推进")
	ReasonQueueApplyFail    = NewReason("QUEUE_APPLY_FAIL", "队列完成失败")
	ReasonMovementApplyFail = NewReason("MOVEMENT_APPLY_FAIL", "行军结算失败")
	ReasonReportWriteFail   = NewReason("REPORT_WRITE_FAIL", "战报写入失败")
	ReasonVillageRepoFail   = NewReason("VILLAGE_REPO_UNAVAILABLE", "村庄存储不可用")
)
