// Package docs 由 swag init 生成的 Swagger 文档
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/chapters/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["章节"],
                "summary": "获取章节详情",
                "parameters": [
                    {"type": "string", "description": "章节ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["章节"],
                "summary": "删除章节",
                "parameters": [
                    {"type": "string", "description": "章节ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}}
                }
            }
        },
        "/chapters/{id}/status": {
            "get": {
                "produces": ["application/json"],
                "tags": ["章节"],
                "summary": "查询章节处理状态",
                "parameters": [
                    {"type": "string", "description": "章节ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}}
                }
            }
        },
        "/chapters/{id}/flashcards": {
            "get": {
                "produces": ["application/json"],
                "tags": ["章节"],
                "summary": "获取章节记忆卡",
                "parameters": [
                    {"type": "string", "description": "章节ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}}
                }
            }
        },
        "/chapters/{id}/quiz": {
            "get": {
                "produces": ["application/json"],
                "tags": ["章节"],
                "summary": "获取章节测验题",
                "parameters": [
                    {"type": "string", "description": "章节ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}}
                }
            }
        },
        "/chapters/{id}/reprocess": {
            "post": {
                "produces": ["application/json"],
                "tags": ["章节"],
                "summary": "重新处理章节",
                "parameters": [
                    {"type": "string", "description": "章节ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}}
                }
            }
        },
        "/chapters/{id}/chat": {
            "get": {
                "produces": ["application/json"],
                "tags": ["对话"],
                "summary": "获取章节对话历史",
                "parameters": [
                    {"type": "string", "description": "章节ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["对话"],
                "summary": "发送对话消息",
                "parameters": [
                    {"type": "string", "description": "章节ID", "name": "id", "in": "path", "required": true},
                    {"description": "用户消息", "name": "message", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controller.SendChatMessageRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}}
                }
            }
        },
        "/lessons/{lessonId}/chapters": {
            "get": {
                "produces": ["application/json"],
                "tags": ["章节"],
                "summary": "获取课程下的章节",
                "parameters": [
                    {"type": "string", "description": "课程ID", "name": "lessonId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}}
                }
            }
        },
        "/lessons/{lessonId}/chapters/from-text": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["章节"],
                "summary": "从文本创建章节",
                "parameters": [
                    {"type": "string", "description": "课程ID", "name": "lessonId", "in": "path", "required": true},
                    {"description": "章节信息", "name": "chapter", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controller.CreateChapterFromTextRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/util.Response"}}
                }
            }
        },
        "/lessons/{lessonId}/chapters/from-audio": {
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["章节"],
                "summary": "上传音频创建章节",
                "parameters": [
                    {"type": "string", "description": "课程ID", "name": "lessonId", "in": "path", "required": true},
                    {"type": "string", "description": "章节名称", "name": "name", "in": "formData", "required": true},
                    {"type": "file", "description": "音频文件", "name": "file", "in": "formData", "required": true}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/util.Response"}}
                }
            }
        },
        "/lessons/{lessonId}/chapters/from-audio-url": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["章节"],
                "summary": "从音频地址创建章节",
                "parameters": [
                    {"type": "string", "description": "课程ID", "name": "lessonId", "in": "path", "required": true},
                    {"description": "章节信息", "name": "chapter", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controller.CreateChapterFromURLRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/util.Response"}}
                }
            }
        },
        "/lessons/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["课程"],
                "summary": "获取课程详情",
                "parameters": [
                    {"type": "string", "description": "课程ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["课程"],
                "summary": "删除课程",
                "parameters": [
                    {"type": "string", "description": "课程ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}}
                }
            }
        },
        "/subjects": {
            "get": {
                "produces": ["application/json"],
                "tags": ["学科"],
                "summary": "获取所有学科",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["学科"],
                "summary": "创建学科",
                "parameters": [
                    {"description": "学科信息", "name": "subject", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controller.CreateSubjectRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/util.Response"}}
                }
            }
        },
        "/subjects/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["学科"],
                "summary": "获取学科详情",
                "parameters": [
                    {"type": "string", "description": "学科ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["学科"],
                "summary": "删除学科",
                "parameters": [
                    {"type": "string", "description": "学科ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}}
                }
            }
        },
        "/subjects/{subjectId}/lessons": {
            "get": {
                "produces": ["application/json"],
                "tags": ["课程"],
                "summary": "获取学科下的课程",
                "parameters": [
                    {"type": "string", "description": "学科ID", "name": "subjectId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["课程"],
                "summary": "创建课程",
                "parameters": [
                    {"type": "string", "description": "学科ID", "name": "subjectId", "in": "path", "required": true},
                    {"description": "课程信息", "name": "lesson", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controller.CreateLessonRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/util.Response"}}
                }
            }
        }
    },
    "definitions": {
        "controller.CreateChapterFromTextRequest": {
            "type": "object",
            "required": ["name", "text"],
            "properties": {
                "name": {"type": "string"},
                "text": {"type": "string"}
            }
        },
        "controller.CreateChapterFromURLRequest": {
            "type": "object",
            "required": ["audioUrl", "name"],
            "properties": {
                "audioUrl": {"type": "string"},
                "name": {"type": "string"}
            }
        },
        "controller.CreateLessonRequest": {
            "type": "object",
            "required": ["name"],
            "properties": {
                "description": {"type": "string"},
                "name": {"type": "string"}
            }
        },
        "controller.CreateSubjectRequest": {
            "type": "object",
            "required": ["name"],
            "properties": {
                "color": {"type": "string"},
                "description": {"type": "string"},
                "name": {"type": "string"}
            }
        },
        "controller.SendChatMessageRequest": {
            "type": "object",
            "required": ["message"],
            "properties": {
                "message": {"type": "string"}
            }
        },
        "util.Response": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "data": {},
                "message": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "StudyEasy 后端 API",
	Description:      "StudyEasy学习助手的后端服务：课程章节的异步处理（转写、课程生成、记忆卡、测验）与课程上下文问答。",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
