// Package docs registers the OpenAPI 2.0 document served by gin-swagger at
// /swagger/index.html. Route comments in internal/http/handlers carry swag
// annotations; regenerate with `swag init -g internal/http/router.go`.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/auth/register": {"post": {"operationId": "register", "tags": ["Auth"], "summary": "Create an account",
            "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.RegisterRequest"}}],
            "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/handlers.AuthResponse"}},
                "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                "409": {"description": "Email already registered", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}}}},
        "/auth/login": {"post": {"operationId": "login", "tags": ["Auth"], "summary": "Exchange credentials for a bearer token",
            "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.LoginRequest"}}],
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.AuthResponse"}},
                "401": {"description": "Invalid email or password", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}}}},
        "/auth/me": {"get": {"operationId": "me", "tags": ["Auth"], "summary": "Current account", "security": [{"BearerAuth": []}],
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.User"}},
                "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}}}},
        "/products": {
            "get": {"operationId": "listProducts", "tags": ["Products"], "summary": "List catalog products",
                "parameters": [{"in": "query", "name": "page", "type": "integer"}, {"in": "query", "name": "page_size", "type": "integer"},
                    {"in": "query", "name": "category", "type": "string"}, {"in": "query", "name": "q", "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.ListProductsResponse"}}}},
            "post": {"operationId": "createProduct", "tags": ["Products"], "summary": "List a new product", "security": [{"BearerAuth": []}],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.CreateProductRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.Product"}},
                    "403": {"description": "Caller is not an artisan", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}}}},
        "/products/{id}": {"get": {"operationId": "getProduct", "tags": ["Products"], "summary": "Get a product",
            "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}],
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Product"}},
                "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}}}},
        "/favorites": {
            "get": {"operationId": "listFavorites", "tags": ["Favorites"], "summary": "List favorites (paginated)", "security": [{"BearerAuth": []}],
                "parameters": [{"in": "header", "name": "If-None-Match", "type": "string"},
                    {"in": "query", "name": "page", "type": "integer"}, {"in": "query", "name": "page_size", "type": "integer", "maximum": 100}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.ListFavoritesResponse"}, "headers": {"ETag": {"type": "string"}}},
                    "304": {"description": "Not Modified"}}},
            "post": {"operationId": "addFavorite", "tags": ["Favorites"], "summary": "Add a product to favorites", "security": [{"BearerAuth": []}],
                "parameters": [{"in": "header", "name": "Idempotency-Key", "type": "string"},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.AddFavoriteRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.Favorite"}},
                    "200": {"description": "Idempotent replay", "schema": {"$ref": "#/definitions/domain.Favorite"}},
                    "400": {"description": "Missing product_id or already in favorites", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "Product not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}}}},
        "/favorites/count": {"get": {"operationId": "countFavorites", "tags": ["Favorites"], "summary": "Number of favorites", "security": [{"BearerAuth": []}],
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.FavoriteCount"}}}}},
        "/favorites/{productId}": {"delete": {"operationId": "removeFavorite", "tags": ["Favorites"], "summary": "Remove a product from favorites", "security": [{"BearerAuth": []}],
            "parameters": [{"in": "path", "name": "productId", "required": true, "type": "string"}],
            "responses": {"204": {"description": "No Content"},
                "404": {"description": "Not in favorites", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}}}},
        "/favorites/{productId}/toggle": {"post": {"operationId": "toggleFavorite", "tags": ["Favorites"], "summary": "Flip favorite membership", "security": [{"BearerAuth": []}],
            "parameters": [{"in": "path", "name": "productId", "required": true, "type": "string"}],
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.FavoriteStatus"}},
                "404": {"description": "Product not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}}}},
        "/favorites/{productId}/check": {"get": {"operationId": "checkFavorite", "tags": ["Favorites"], "summary": "Is this product a favorite?", "security": [{"BearerAuth": []}],
            "parameters": [{"in": "path", "name": "productId", "required": true, "type": "string"}],
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.FavoriteStatus"}}}}}
    },
    "definitions": {
        "handlers.ErrorResponse": {"type": "object", "properties": {"request_id": {"type": "string"}, "code": {"type": "string"}, "message": {"type": "string"}}},
        "handlers.RegisterRequest": {"type": "object", "required": ["email", "password"], "properties": {"email": {"type": "string"}, "password": {"type": "string"}, "name": {"type": "string"}, "role": {"type": "string", "enum": ["customer", "artisan"]}}},
        "handlers.LoginRequest": {"type": "object", "required": ["email", "password"], "properties": {"email": {"type": "string"}, "password": {"type": "string"}}},
        "handlers.AuthResponse": {"type": "object", "properties": {"token": {"type": "string"}, "user": {"$ref": "#/definitions/domain.User"}}},
        "handlers.CreateProductRequest": {"type": "object", "required": ["name"], "properties": {"name": {"type": "string"}, "description": {"type": "string"}, "price": {"type": "number", "minimum": 0}, "currency": {"type": "string"}, "images": {"type": "array", "items": {"type": "string"}}, "stock": {"type": "integer", "minimum": 0}, "category": {"type": "string"}, "tags": {"type": "array", "items": {"type": "string"}}}},
        "handlers.AddFavoriteRequest": {"type": "object", "required": ["product_id"], "properties": {"product_id": {"type": "string"}}},
        "handlers.FavoriteStatus": {"type": "object", "properties": {"is_favorited": {"type": "boolean"}}},
        "handlers.FavoriteCount": {"type": "object", "properties": {"count": {"type": "integer"}}},
        "handlers.Pagination": {"type": "object", "properties": {"page": {"type": "integer"}, "page_size": {"type": "integer"}, "total": {"type": "integer"}, "total_pages": {"type": "integer"}, "has_next": {"type": "boolean"}}},
        "handlers.ListProductsResponse": {"type": "object", "properties": {"products": {"type": "array", "items": {"$ref": "#/definitions/domain.Product"}}, "pagination": {"$ref": "#/definitions/handlers.Pagination"}}},
        "handlers.ListFavoritesResponse": {"type": "object", "properties": {"favorites": {"type": "array", "items": {"$ref": "#/definitions/domain.Favorite"}}, "pagination": {"$ref": "#/definitions/handlers.Pagination"}}},
        "domain.User": {"type": "object", "properties": {"id": {"type": "string"}, "email": {"type": "string"}, "name": {"type": "string"}, "role": {"type": "string"}, "created_at": {"type": "string"}, "updated_at": {"type": "string"}}},
        "domain.Product": {"type": "object", "properties": {"id": {"type": "string"}, "artisan_id": {"type": "string"}, "name": {"type": "string"}, "description": {"type": "string"}, "price": {"type": "number"}, "currency": {"type": "string"}, "images": {"type": "array", "items": {"type": "string"}}, "stock": {"type": "integer"}, "rating": {"type": "number"}, "category": {"type": "string"}, "tags": {"type": "array", "items": {"type": "string"}}, "created_at": {"type": "string"}, "updated_at": {"type": "string"}}},
        "domain.Favorite": {"type": "object", "properties": {"id": {"type": "string"}, "user_id": {"type": "string"}, "product_id": {"type": "string"}, "added_at": {"type": "string"}, "product": {"$ref": "#/definitions/domain.Product"}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "ShilpkaarAI Marketplace API",
	Description:      "Artisan catalog and user favorites.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
