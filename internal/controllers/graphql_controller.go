package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	graphql "github.com/graph-gophers/graphql-go"
	"github.com/sirupsen/logrus"
)

// GraphQLRequest is the standard GraphQL-over-HTTP POST body
type GraphQLRequest struct {
	Query         string                 `json:"query" binding:"required"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// GraphQLController executes GraphQL operations against the employee schema
type GraphQLController struct {
	schema *graphql.Schema
	log    *logrus.Logger
}

// NewGraphQLController creates a new instance of GraphQLController
func NewGraphQLController(schema *graphql.Schema, log *logrus.Logger) *GraphQLController {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &GraphQLController{schema: schema, log: log}
}

// Execute godoc
// @Summary Execute a GraphQL operation
// @Description Runs a query or mutation. Operation errors are reported in the "errors" array with extensions.code, not through the HTTP status.
// @Tags graphql
// @Accept json
// @Produce json
// @Param request body GraphQLRequest true "GraphQL request"
// @Success 200 {object} map[string]interface{} "GraphQL response with data and errors"
// @Failure 400 {object} map[string]interface{} "Malformed request body"
// @Security BearerAuth
// @Router /graphql [post]
func (gc *GraphQLController) Execute(c *gin.Context) {
	var req GraphQLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"errors": []gin.H{{"message": "Request body must be JSON with a non-empty query"}},
		})
		return
	}

	resp := gc.schema.Exec(c.Request.Context(), req.Query, req.OperationName, req.Variables)
	if len(resp.Errors) > 0 {
		gc.log.WithFields(logrus.Fields{
			"operation": req.OperationName,
			"errors":    len(resp.Errors),
		}).Debug("GraphQL operation returned errors")
	}
	c.JSON(http.StatusOK, resp)
}
