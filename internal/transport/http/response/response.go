package response

import "market-backend/internal/domain"

type Resp struct {
	Code int         `json:"code"`
	Kind domain.Kind `json:"kind,omitempty"`
	Msg  string      `json:"msg"`
	Data interface{} `json:"data"`
}

// New never leaves data null.
func New(code int, msg string, data interface{}) Resp {
	if data == nil {
		data = struct{}{}
	}
	return Resp{Code: code, Msg: msg, Data: data}
}

func OK(data interface{}) Resp {
	return New(CodeOK, CodeMsgMap[CodeOK], data)
}

// Error builds a failure envelope; an empty customMsg falls back to the code's text.
func Error(code int, customMsg string) Resp {
	msg := CodeMsgMap[code]
	if customMsg != "" {
		msg = customMsg
	}
	return New(code, msg, struct{}{})
}

// FromError renders a business error. Internal errors never leak their message.
func FromError(err error) Resp {
	kind := domain.KindOf(err)
	code := CodeOf(err)
	msg := err.Error()
	if kind == domain.KindInternal {
		msg = CodeMsgMap[CodeServerError]
	}
	r := Error(code, msg)
	r.Kind = kind
	return r
}
