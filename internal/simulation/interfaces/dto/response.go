package dto

import "VillageWars/internal/shared/transport"

// Response 是统一响应体，access 日志从 code 字段取业务码。
type Response struct {
	Code   int    `json:"code"`
	Msg    string `json:"msg,omitempty"`
	Reason string `json:"reason,omitempty"`
	Data   any    `json:"data,omitempty"`
}

func Success(data any) Response {
	return Response{Code: int(transport.OK), Data: data}
}

func Error(code transport.BizCode, msg, reason string) Response {
	return Response{Code: int(code), Msg: msg, Reason: reason}
}
