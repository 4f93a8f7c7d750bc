package controller

import (
	"errors"

	"study_easy_backend/internal/service"
	"study_easy_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// SubjectController 处理学科的API请求

type SubjectController struct {
	SubjectService *service.SubjectService
}

func NewSubjectController(subjectService *service.SubjectService) *SubjectController {
	return &SubjectController{SubjectService: subjectService}
}

type CreateSubjectRequest struct {
	Name        string `json:"name" binding:"required"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

// @Summary 创建学科
// @Description 创建新的学科
// @Tags 学科
// @Accept json
// @Produce json
// @Param subject body CreateSubjectRequest true "学科信息"
// @Success 201 {object} util.Response
// @Router /api/subjects [post]
func (c *SubjectController) Create(ctx *gin.Context) {
	var req CreateSubjectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	subject, err := c.SubjectService.Create(req.Name, req.Color, req.Description)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, subject)
}

// @Summary 获取所有学科
// @Description 获取全部学科列表
// @Tags 学科
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/subjects [get]
func (c *SubjectController) List(ctx *gin.Context) {
	subjects, err := c.SubjectService.List()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, subjects)
}

// @Summary 获取学科详情
// @Description 根据ID获取学科
// @Tags 学科
// @Produce json
// @Param id path string true "学科ID"
// @Success 200 {object} util.Response
// @Router /api/subjects/{id} [get]
func (c *SubjectController) Get(ctx *gin.Context) {
	subject, err := c.SubjectService.Get(ctx.Param("subjectId"))
	if err != nil {
		if errors.Is(err, util.ErrSubjectNotFound) {
			util.NotFound(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, subject)
}

// @Summary 删除学科
// @Description 删除学科及其全部课程与章节
// @Tags 学科
// @Produce json
// @Param id path string true "学科ID"
// @Success 200 {object} util.Response
// @Router /api/subjects/{id} [delete]
func (c *SubjectController) Delete(ctx *gin.Context) {
	if err := c.SubjectService.Delete(ctx.Param("subjectId")); err != nil {
		if errors.Is(err, util.ErrSubjectNotFound) {
			util.NotFound(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"deleted": true})
}
