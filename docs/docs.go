// Package docs swagger 文档，路由注释变更后用 swag init 重新生成
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
        "/api/health": {
            "get": {"tags": ["系统"], "summary": "健康检查", "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}}}}
        },
        "/api/auth/login": {
            "post": {"tags": ["认证"], "summary": "用户登录", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/controller.LoginRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}},
                              "401": {"description": "凭据无效或人脸不匹配", "schema": {"$ref": "#/definitions/util.Response"}}}}
        },
        "/api/tests": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["测验"], "summary": "获取全部测验",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["测验"], "summary": "创建测验", "consumes": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/service.TestInput"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/util.Response"}},
                              "400": {"description": "参数错误或正确答案不在选项中", "schema": {"$ref": "#/definitions/util.Response"}}}}
        },
        "/api/tests/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["测验"], "summary": "获取测验详情",
                "parameters": [{"type": "string", "in": "path", "name": "id", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["测验"], "summary": "更新测验",
                "parameters": [{"type": "string", "in": "path", "name": "id", "required": true},
                               {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/service.TestPatch"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["测验"], "summary": "删除测验",
                "parameters": [{"type": "string", "in": "path", "name": "id", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}}}}
        },
        "/api/tests/course/{courseId}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["测验"], "summary": "获取课程下的测验",
                "parameters": [{"type": "string", "in": "path", "name": "courseId", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}}}}
        },
        "/api/tests/submit": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["测验成绩"], "summary": "提交测验答案",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/controller.SubmitRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/util.Response"}}}}
        },
        "/api/tests/results": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["测验成绩"], "summary": "我的测验成绩",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}}}}
        },
        "/api/tests/results/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["测验成绩"], "summary": "成绩详情",
                "parameters": [{"type": "string", "in": "path", "name": "id", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}},
                              "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/util.Response"}},
                              "404": {"description": "成绩不存在或关联测验已删除", "schema": {"$ref": "#/definitions/util.Response"}}}}
        },
        "/api/tests/all-results": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["测验成绩"], "summary": "全部测验成绩",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}}}}
        },
        "/api/enrollments": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["报名"], "summary": "报名课程",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/controller.EnrollRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/util.Response"}},
                              "409": {"description": "已报名", "schema": {"$ref": "#/definitions/util.Response"}}}}
        },
        "/api/enrollments/{id}/complete": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["报名"], "summary": "标记内容已完成",
                "parameters": [{"type": "string", "in": "path", "name": "id", "required": true},
                               {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/controller.ProgressRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}}}}
        },
        "/api/enrollments/{id}/incomplete": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["报名"], "summary": "取消内容完成标记",
                "parameters": [{"type": "string", "in": "path", "name": "id", "required": true},
                               {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/controller.ProgressRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}}}}
        },
        "/api/enrollments/{id}": {
            "delete": {"security": [{"BearerAuth": []}], "tags": ["报名"], "summary": "退课",
                "parameters": [{"type": "string", "in": "path", "name": "id", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}}}}
        }
    },
    "definitions": {
        "util.Response": {"type": "object", "properties": {
            "code": {"type": "integer"}, "message": {"type": "string"}, "data": {}}},
        "controller.LoginRequest": {"type": "object", "required": ["email", "password"], "properties": {
            "email": {"type": "string"}, "password": {"type": "string"}, "faceImage": {"type": "string"}}},
        "controller.SubmitRequest": {"type": "object", "required": ["testId"], "properties": {
            "testId": {"type": "string"}, "answers": {"type": "array", "items": {"type": "integer", "x-nullable": true}}}},
        "controller.EnrollRequest": {"type": "object", "required": ["courseId"], "properties": {
            "courseId": {"type": "string"}}},
        "controller.ProgressRequest": {"type": "object", "required": ["contentId"], "properties": {
            "contentId": {"type": "string"}}},
        "service.QuestionSpec": {"type": "object", "properties": {
            "questionText": {"type": "string"},
            "options": {"type": "array", "items": {"type": "string"}},
            "correctAnswer": {"type": "string"}}},
        "service.TestInput": {"type": "object", "properties": {
            "title": {"type": "string"}, "course": {"type": "string"}, "branch": {"type": "string"},
            "duration": {"type": "integer"},
            "questions": {"type": "array", "items": {"$ref": "#/definitions/service.QuestionSpec"}}}},
        "service.TestPatch": {"type": "object", "properties": {
            "title": {"type": "string"}, "course": {"type": "string"}, "branch": {"type": "string"},
            "duration": {"type": "integer"},
            "questions": {"type": "array", "items": {"$ref": "#/definitions/service.QuestionSpec"}}}}
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "LMS 后端 API",
	Description:      "学习管理平台后端：课程、报名进度、测验与成绩。",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
