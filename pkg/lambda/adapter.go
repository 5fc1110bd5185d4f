package lambda

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/sirupsen/logrus"
)

// CORSHeaders are attached to every proxy response
var CORSHeaders = map[string]string{
	"Access-Control-Allow-Origin":      "*",
	"Access-Control-Allow-Credentials": "true",
}

// NewRequest converts an API Gateway proxy event into a generic request
func NewRequest(event events.APIGatewayProxyRequest) (*Request, error) {
	body := []byte(event.Body)
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(event.Body)
		if err != nil {
			return nil, fmt.Errorf("decode base64 body: %w", err)
		}
		body = decoded
	}

	return &Request{
		Method:      event.HTTPMethod,
		Path:        event.Path,
		Resource:    event.Resource,
		Headers:     event.Headers,
		QueryParams: event.QueryStringParameters,
		Body:        body,
		PathParams:  event.PathParameters,
		RequestID:   event.RequestContext.RequestID,
	}, nil
}

// ProxyResponse converts a generic response into an API Gateway proxy response
func ProxyResponse(resp *Response) events.APIGatewayProxyResponse {
	headers := make(map[string]string, len(resp.Headers)+len(CORSHeaders))
	for k, v := range CORSHeaders {
		headers[k] = v
	}
	for k, v := range resp.Headers {
		headers[k] = v
	}

	return events.APIGatewayProxyResponse{
		StatusCode: resp.StatusCode,
		Headers:    headers,
		Body:       string(resp.Body),
	}
}

// Adapt wraps a HandlerFunc as an API Gateway proxy handler. Handler errors
// and panics become 500 responses; the returned error is always nil so the
// runtime never reports an invocation failure.
func Adapt(h HandlerFunc, logger *logrus.Logger) func(context.Context, events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if logger == nil {
		logger = logrus.New()
	}

	return func(ctx context.Context, event events.APIGatewayProxyRequest) (out events.APIGatewayProxyResponse, _ error) {
		start := time.Now()
		entry := logger.WithFields(logrus.Fields{
			"request_id": event.RequestContext.RequestID,
			"method":     event.HTTPMethod,
			"path":       event.Path,
		})
		if lc, ok := lambdacontext.FromContext(ctx); ok {
			entry = entry.WithField("aws_request_id", lc.AwsRequestID)
		}

		defer func() {
			if r := recover(); r != nil {
				entry.WithField("panic", r).Error("Handler panicked")
				out = ProxyResponse(internalError(fmt.Errorf("%v", r)))
			}
			entry.WithFields(logrus.Fields{
				"status":  out.StatusCode,
				"latency": time.Since(start),
			}).Info("Request completed")
		}()

		req, err := NewRequest(event)
		if err != nil {
			return ProxyResponse(JSON(http.StatusBadRequest, map[string]interface{}{
				"statusCode": http.StatusBadRequest,
				"message":    "Invalid request body",
				"error":      err.Error(),
			})), nil
		}

		resp, err := h(ctx, req)
		if err != nil {
			entry.WithError(err).Error("Handler returned an error")
			return ProxyResponse(internalError(err)), nil
		}
		if resp == nil {
			return ProxyResponse(internalError(fmt.Errorf("handler returned no response"))), nil
		}

		return ProxyResponse(resp), nil
	}
}

func internalError(err error) *Response {
	return JSON(http.StatusInternalServerError, map[string]interface{}{
		"statusCode": http.StatusInternalServerError,
		"message":    "Internal server error",
		"error":      err.Error(),
	})
}
