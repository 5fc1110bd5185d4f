package handlers

// @title Recipe Hub API
// @version 1.0
// @description CRUD API for cooking recipes backed by DynamoDB
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/youlserf/recipehub

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8081
// @BasePath /

// @tag.name recipes
// @tag.description Recipe management operations

// @tag.name health
// @tag.description Service health
