package controller

import (
	"errors"

	"study_easy_backend/internal/service"
	"study_easy_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// ChatController 处理章节答疑对话的API请求

type ChatController struct {
	ChatService *service.ChatService
}

func NewChatController(chatService *service.ChatService) *ChatController {
	return &ChatController{ChatService: chatService}
}

type SendChatMessageRequest struct {
	Message string `json:"message" binding:"required"`
}

// @Summary 获取章节对话历史
// @Description 按时间升序返回章节的全部对话消息
// @Tags 对话
// @Produce json
// @Param id path string true "章节ID"
// @Success 200 {object} util.Response
// @Router /api/chapters/{id}/chat [get]
func (c *ChatController) History(ctx *gin.Context) {
	messages, err := c.ChatService.History(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrChapterNotFound) {
			util.NotFound(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, messages)
}

// @Summary 发送对话消息
// @Description 基于章节内容回答学生提问，历史消息只追加不修改
// @Tags 对话
// @Accept json
// @Produce json
// @Param id path string true "章节ID"
// @Param message body SendChatMessageRequest true "用户消息"
// @Success 200 {object} util.Response
// @Router /api/chapters/{id}/chat [post]
func (c *ChatController) Send(ctx *gin.Context) {
	var req SendChatMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	reply, err := c.ChatService.SendMessage(ctx.Request.Context(), ctx.Param("id"), req.Message)
	if err != nil {
		if errors.Is(err, util.ErrChapterNotFound) {
			util.NotFound(ctx, err.Error())
			return
		}
		if errors.Is(err, util.ErrCapabilityFailure) {
			util.Error(ctx, 502, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, reply)
}
