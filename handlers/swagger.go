package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the API.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(r gin.IRouter) {
	r.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	r.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>ziio-ai API</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "ziio-ai", "version": "v0.1.0" },
  "paths": {
    "/api/analyze": {
      "post": {
        "summary": "Assessment analysis of one page image",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"imageUrl":{"type":"string"},"pageNumber":{"type":"integer"},"totalPages":{"type":"integer"}}}}}},
        "responses": { "200": { "description": "analysis JSON" }, "400": { "description": "no image URL" }, "500": { "description": "unparseable reply" } }
      }
    },
    "/api/analyze/document": {
      "post": {
        "summary": "Per-page analyses plus whole-document synthesis",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"imageUrls":{"type":"array","items":{"type":"string"}}}}}}},
        "responses": { "200": { "description": "document analysis" }, "400": { "description": "no image URLs" } }
      }
    },
    "/api/analyze/text": {
      "post": {
        "summary": "Analyse plain text",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"text":{"type":"string"},"mode":{"type":"string","enum":["quick","deep","technical"]}}}}}},
        "responses": { "200": { "description": "analysis JSON" }, "400": { "description": "no text" } }
      }
    },
    "/api/chat/context": {
      "post": { "summary": "Render saved analyses into chat context", "responses": { "200": { "description": "fileContent and systemMessage" } } }
    },
    "/api/proofread": {
      "post": { "summary": "Stream proofreading suggestions for the raw body", "responses": { "200": { "description": "text stream" }, "400": { "description": "no text" } } }
    },
    "/api/chat": {
      "post": {
        "summary": "Stream a chat reply",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"messages":{"type":"array","items":{"type":"object","properties":{"role":{"type":"string"},"content":{"type":"string"}}}},"fileContent":{"type":"string"},"analysisMode":{"type":"string"},"systemMessage":{"type":"string"},"activeDocument":{"type":"string"}}}}}},
        "responses": { "200": { "description": "text stream" } }
      }
    },
    "/api/article": {
      "post": {
        "summary": "Stream a drafted article",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"topic":{"type":"string"},"style":{"type":"string"},"length":{"type":"integer"}}}}}},
        "responses": { "200": { "description": "text stream" } }
      }
    },
    "/api/answers": {
      "post": { "summary": "Draft an academic answer", "responses": { "200": { "description": "answer and source" } } }
    },
    "/api/answers/document": {
      "post": { "summary": "Draft one answer per page of a questions analysis", "responses": { "200": { "description": "answers" } } }
    },
    "/api/answers/pdf": {
      "post": { "summary": "Append drafted answer pages to a questions PDF", "requestBody": { "content": { "multipart/form-data": { "schema": { "type": "object", "required": ["file", "questions"], "properties": { "file": { "type": "string", "format": "binary" }, "questions": { "type": "string" }, "context": { "type": "string" }, "customInstructions": { "type": "string" } } } } } }, "responses": { "200": { "description": "answered PDF", "content": { "application/pdf": {} } }, "400": { "description": "missing file, unreadable PDF or no questions" }, "413": { "description": "too large" } } }
    },
    "/api/uploads": {
      "post": { "summary": "Upload a page image", "responses": { "201": { "description": "key and url" }, "413": { "description": "too large" }, "415": { "description": "unsupported type" } } }
    },
    "/api/file-analysis": {
      "get": { "summary": "List saved analyses", "responses": { "200": { "description": "records" } } },
      "post": { "summary": "Save an analysis", "responses": { "200": { "description": "record id" } } }
    },
    "/api/file-analysis/{id}": {
      "get": { "summary": "Get a saved analysis", "responses": { "200": { "description": "record" }, "404": { "description": "not found" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`
