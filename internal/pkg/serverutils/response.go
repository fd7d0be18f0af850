package serverutils

// BaseResponseModel is the envelope for non-error JSON responses that do
// not have a dedicated DTO.
type BaseResponseModel struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type ErrorResponseModel struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func BaseResponse(code int, message string, data interface{}) BaseResponseModel {
	return BaseResponseModel{Code: code, Message: message, Data: data}
}

func ErrorResponse(code int, message string) ErrorResponseModel {
	return ErrorResponseModel{Code: code, Message: message}
}
