package controller

import (
	"errors"

	"study_easy_backend/internal/service"
	"study_easy_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// LessonController 处理课程的API请求

type LessonController struct {
	LessonService *service.LessonService
}

func NewLessonController(lessonService *service.LessonService) *LessonController {
	return &LessonController{LessonService: lessonService}
}

type CreateLessonRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// @Summary 创建课程
// @Description 在指定学科下创建课程
// @Tags 课程
// @Accept json
// @Produce json
// @Param subjectId path string true "学科ID"
// @Param lesson body CreateLessonRequest true "课程信息"
// @Success 201 {object} util.Response
// @Router /api/subjects/{subjectId}/lessons [post]
func (c *LessonController) Create(ctx *gin.Context) {
	var req CreateLessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lesson, err := c.LessonService.Create(ctx.Param("subjectId"), req.Name, req.Description)
	if err != nil {
		if errors.Is(err, util.ErrSubjectNotFound) {
			util.NotFound(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, lesson)
}

// @Summary 获取学科下的课程
// @Description 列出学科下的全部课程
// @Tags 课程
// @Produce json
// @Param subjectId path string true "学科ID"
// @Success 200 {object} util.Response
// @Router /api/subjects/{subjectId}/lessons [get]
func (c *LessonController) ListBySubject(ctx *gin.Context) {
	lessons, err := c.LessonService.ListBySubject(ctx.Param("subjectId"))
	if err != nil {
		if errors.Is(err, util.ErrSubjectNotFound) {
			util.NotFound(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, lessons)
}

// @Summary 获取课程详情
// @Description 根据ID获取课程
// @Tags 课程
// @Produce json
// @Param id path string true "课程ID"
// @Success 200 {object} util.Response
// @Router /api/lessons/{id} [get]
func (c *LessonController) Get(ctx *gin.Context) {
	lesson, err := c.LessonService.Get(ctx.Param("lessonId"))
	if err != nil {
		if errors.Is(err, util.ErrLessonNotFound) {
			util.NotFound(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, lesson)
}

// @Summary 删除课程
// @Description 删除课程及其全部章节
// @Tags 课程
// @Produce json
// @Param id path string true "课程ID"
// @Success 200 {object} util.Response
// @Router /api/lessons/{id} [delete]
func (c *LessonController) Delete(ctx *gin.Context) {
	if err := c.LessonService.Delete(ctx.Param("lessonId")); err != nil {
		if errors.Is(err, util.ErrLessonNotFound) {
			util.NotFound(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"deleted": true})
}
