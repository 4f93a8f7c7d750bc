package controller

import (
	"errors"

	"study_easy_backend/internal/config"
	"study_easy_backend/internal/service"
	"study_easy_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// ChapterController 处理章节的API请求

type ChapterController struct {
	ChapterService *service.ChapterService
	maxUploadBytes int64
}

func NewChapterController(chapterService *service.ChapterService, cfg *config.Config) *ChapterController {
	return &ChapterController{
		ChapterService: chapterService,
		maxUploadBytes: int64(cfg.Processing.MaxUploadMB) << 20,
	}
}

type CreateChapterFromTextRequest struct {
	Name string `json:"name" binding:"required"`
	Text string `json:"text" binding:"required"`
}

type CreateChapterFromURLRequest struct {
	Name     string `json:"name" binding:"required"`
	AudioURL string `json:"audioUrl" binding:"required,url"`
}

// @Summary 从文本创建章节
// @Description 以原始文本创建章节并异步生成学习内容
// @Tags 章节
// @Accept json
// @Produce json
// @Param lessonId path string true "课程ID"
// @Param chapter body CreateChapterFromTextRequest true "章节信息"
// @Success 201 {object} util.Response
// @Router /api/lessons/{lessonId}/chapters/from-text [post]
func (c *ChapterController) CreateFromText(ctx *gin.Context) {
	var req CreateChapterFromTextRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	chapter, err := c.ChapterService.CreateFromText(ctx.Param("lessonId"), req.Name, req.Text)
	if err != nil {
		if errors.Is(err, util.ErrLessonNotFound) {
			util.NotFound(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, chapter)
}

// @Summary 上传音频创建章节
// @Description 上传音频文件创建章节，转写与内容生成异步执行
// @Tags 章节
// @Accept multipart/form-data
// @Produce json
// @Param lessonId path string true "课程ID"
// @Param name formData string true "章节名称"
// @Param file formData file true "音频文件"
// @Success 201 {object} util.Response
// @Router /api/lessons/{lessonId}/chapters/from-audio [post]
func (c *ChapterController) CreateFromAudioUpload(ctx *gin.Context) {
	name := ctx.PostForm("name")
	if name == "" {
		util.BadRequest(ctx, "name is required")
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "audio file is required")
		return
	}

	if fileHeader.Size > c.maxUploadBytes {
		util.Error(ctx, 413, util.ErrUploadTooLarge.Error())
		return
	}
	if !util.IsAllowedAudioExtension(fileHeader.Filename) {
		util.BadRequest(ctx, util.ErrUnsupportedAudio.Error())
		return
	}

	// 先嗅探 MIME 再重新打开用于落盘
	probe, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	// m4a 会被嗅探为 video/mp4，flac 等小众格式常落在 octet-stream
	_, mimeErr := util.ValidateMimeType(probe, []string{"audio/", "video/mp4", "video/webm", "application/ogg", "application/octet-stream"})
	probe.Close()
	if mimeErr != nil {
		util.BadRequest(ctx, util.ErrUnsupportedAudio.Error())
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	chapter, err := c.ChapterService.CreateFromAudioUpload(ctx.Param("lessonId"), name, fileHeader.Filename, file)
	if err != nil {
		if errors.Is(err, util.ErrLessonNotFound) {
			util.NotFound(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, chapter)
}

// @Summary 从音频地址创建章节
// @Description 以远端音频地址创建章节，下载与转写在处理阶段执行
// @Tags 章节
// @Accept json
// @Produce json
// @Param lessonId path string true "课程ID"
// @Param chapter body CreateChapterFromURLRequest true "章节信息"
// @Success 201 {object} util.Response
// @Router /api/lessons/{lessonId}/chapters/from-audio-url [post]
func (c *ChapterController) CreateFromAudioURL(ctx *gin.Context) {
	var req CreateChapterFromURLRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	chapter, err := c.ChapterService.CreateFromAudioURL(ctx.Param("lessonId"), req.Name, req.AudioURL)
	if err != nil {
		if errors.Is(err, util.ErrLessonNotFound) {
			util.NotFound(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, chapter)
}

// @Summary 获取课程下的章节
// @Description 列出课程下的全部章节
// @Tags 章节
// @Produce json
// @Param lessonId path string true "课程ID"
// @Success 200 {object} util.Response
// @Router /api/lessons/{lessonId}/chapters [get]
func (c *ChapterController) ListByLesson(ctx *gin.Context) {
	chapters, err := c.ChapterService.ListByLesson(ctx.Param("lessonId"))
	if err != nil {
		if errors.Is(err, util.ErrLessonNotFound) {
			util.NotFound(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, chapters)
}

// @Summary 获取章节详情
// @Description 根据ID获取章节及其生成内容
// @Tags 章节
// @Produce json
// @Param id path string true "章节ID"
// @Success 200 {object} util.Response
// @Router /api/chapters/{id} [get]
func (c *ChapterController) Get(ctx *gin.Context) {
	chapter, err := c.ChapterService.Get(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrChapterNotFound) {
			util.NotFound(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, chapter)
}

// @Summary 查询章节处理状态
// @Description 轻量状态查询，供客户端在处理期间轮询
// @Tags 章节
// @Produce json
// @Param id path string true "章节ID"
// @Success 200 {object} util.Response
// @Router /api/chapters/{id}/status [get]
func (c *ChapterController) Status(ctx *gin.Context) {
	snapshot, err := c.ChapterService.Status(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrChapterNotFound) {
			util.NotFound(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, snapshot)
}

// @Summary 获取章节记忆卡
// @Description 列出章节生成的全部记忆卡
// @Tags 章节
// @Produce json
// @Param id path string true "章节ID"
// @Success 200 {object} util.Response
// @Router /api/chapters/{id}/flashcards [get]
func (c *ChapterController) Flashcards(ctx *gin.Context) {
	cards, err := c.ChapterService.Flashcards(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrChapterNotFound) {
			util.NotFound(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, cards)
}

// @Summary 获取章节测验题
// @Description 列出章节生成的全部测验题
// @Tags 章节
// @Produce json
// @Param id path string true "章节ID"
// @Success 200 {object} util.Response
// @Router /api/chapters/{id}/quiz [get]
func (c *ChapterController) Quiz(ctx *gin.Context) {
	questions, err := c.ChapterService.Quiz(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrChapterNotFound) {
			util.NotFound(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, questions)
}

// @Summary 重新处理章节
// @Description 以当前输入重新生成章节内容，旧内容会被整体替换
// @Tags 章节
// @Produce json
// @Param id path string true "章节ID"
// @Success 200 {object} util.Response
// @Router /api/chapters/{id}/reprocess [post]
func (c *ChapterController) Reprocess(ctx *gin.Context) {
	chapter, err := c.ChapterService.Reprocess(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrChapterNotFound) {
			util.NotFound(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, chapter)
}

// @Summary 删除章节
// @Description 删除章节及其全部生成内容
// @Tags 章节
// @Produce json
// @Param id path string true "章节ID"
// @Success 200 {object} util.Response
// @Router /api/chapters/{id} [delete]
func (c *ChapterController) Delete(ctx *gin.Context) {
	if err := c.ChapterService.Delete(ctx.Param("id")); err != nil {
		if errors.Is(err, util.ErrChapterNotFound) {
			util.NotFound(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"deleted": true})
}
