package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fixkme/tywheel/errs"
)

// 返回格式
type ResponseResult struct {
	Ecode int    `json:"ecode"` // 业务状态码，0为成功，其他表示失败
	Error string `json:"error"` // 业务消息提示，仅用于展示
	Data  any    `json:"data"`  // 业务数据，未设置时为空对象{}
}

func Response(c *gin.Context, httpStatus int, response *ResponseResult) {
	data := response.Data
	if data == nil {
		data = gin.H{}
	}
	c.JSON(httpStatus, gin.H{
		"status": response.Ecode,
		"error":  response.Error,
		"data":   data,
		"_links": gin.H{
			"self": gin.H{
				"href": c.Request.RequestURI,
			},
		},
	})
}

func ResponseError(c *gin.Context, httpStatus int, err error) {
	errCode, errDesc := parserError(err)
	Response(c, httpStatus, &ResponseResult{Ecode: errCode, Error: errDesc})
}

func ResponseSuccess(c *gin.Context, data any) {
	Response(c, http.StatusOK, &ResponseResult{Data: data})
}

func parserError(err error) (errCode int, errDesc string) {
	var codeErr errs.CodeError
	if errors.As(err, &codeErr) {
		errCode, errDesc = int(codeErr.Code()), codeErr.Error()
	} else {
		errCode, errDesc = errs.ErrCode_Unknown, err.Error()
	}
	return
}
