package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/youlserf/recipehub/pkg/lambda"
)

const recipeResource = "/recipe"

// Route dispatches an API Gateway request to the matching recipe operation
func (h *RecipeHandler) Route(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	id, ok := recipeID(req)
	if !ok {
		return lambda.JSON(http.StatusNotFound, Envelope{
			StatusCode: http.StatusNotFound,
			Message:    "Route not found",
		}), nil
	}

	switch {
	case req.Method == http.MethodOptions:
		return &lambda.Response{StatusCode: http.StatusNoContent, Headers: map[string]string{
			"Access-Control-Allow-Methods": "GET,POST,PUT,DELETE,OPTIONS",
			"Access-Control-Allow-Headers": "Content-Type,Authorization,X-Request-ID",
		}}, nil
	case req.Method == http.MethodPost && id == "":
		return h.HandleCreate(ctx, req)
	case req.Method == http.MethodGet && id == "":
		return h.HandleList(ctx, req)
	case req.Method == http.MethodGet:
		return h.HandleGet(ctx, withID(req, id))
	case req.Method == http.MethodPut && id != "":
		return h.HandleUpdate(ctx, withID(req, id))
	case req.Method == http.MethodDelete && id != "":
		return h.HandleDelete(ctx, withID(req, id))
	default:
		return lambda.JSON(http.StatusMethodNotAllowed, Envelope{
			StatusCode: http.StatusMethodNotAllowed,
			Message:    "Method not allowed",
		}), nil
	}
}

// recipeID extracts the id path parameter, falling back to parsing the raw
// path when the gateway did not supply path parameters. ok is false when the
// path is not a recipe route.
func recipeID(req *lambda.Request) (id string, ok bool) {
	if v := req.PathParams["id"]; v != "" {
		return v, true
	}

	path := strings.TrimSuffix(req.Path, "/")
	if path == "" && req.Resource != "" {
		path = strings.TrimSuffix(req.Resource, "/")
	}

	switch {
	case path == recipeResource:
		return "", true
	case strings.HasPrefix(path, recipeResource+"/"):
		rest := strings.TrimPrefix(path, recipeResource+"/")
		if rest == "" || strings.Contains(rest, "/") {
			return "", false
		}
		return rest, true
	default:
		// Stage-prefixed or custom domain paths still resolve via the resource
		if req.Resource == recipeResource {
			return "", true
		}
		return "", false
	}
}

func withID(req *lambda.Request, id string) *lambda.Request {
	if req.PathParams["id"] == id {
		return req
	}
	clone := *req
	clone.PathParams = map[string]string{"id": id}
	for k, v := range req.PathParams {
		if k != "id" {
			clone.PathParams[k] = v
		}
	}
	return &clone
}
