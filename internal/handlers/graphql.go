package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/graph-gophers/graphql-go"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"

	"github.com/usergraph/backend/internal/logging"
)

const maxRequestBodyBytes = 1 << 20

// GraphQLHandler serves the GraphQL endpoint over HTTP.
//
// POST accepts a JSON body of {query, operationName, variables}. GET accepts the
// same fields as URL parameters and only runs query operations.
type GraphQLHandler struct {
	Schema  *graphql.Schema
	Limiter RateLimiter
}

type graphQLRequest struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLErrorResponse struct {
	Errors []graphQLError `json:"errors"`
}

func (h GraphQLHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Schema == nil {
		logger.Error("graphql schema unavailable")
		respondGraphQLError(ctx, w, http.StatusInternalServerError, "graphql service unavailable")
		return
	}

	if !allowRequest(h.Limiter, r, "graphql") {
		respondGraphQLError(ctx, w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	var (
		req graphQLRequest
		err error
	)
	switch r.Method {
	case http.MethodPost:
		req, err = decodeBody(w, r)
	case http.MethodGet:
		req, err = decodeQueryParams(r.URL.Query())
	default:
		w.Header().Set("Allow", "GET, POST")
		respondGraphQLError(ctx, w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if err != nil {
		logger.Warn("invalid graphql request", "error", err)
		respondGraphQLError(ctx, w, http.StatusBadRequest, err.Error())
		return
	}

	if strings.TrimSpace(req.Query) == "" {
		respondGraphQLError(ctx, w, http.StatusBadRequest, "query is required")
		return
	}

	if r.Method == http.MethodGet && operationType(req.Query, req.OperationName) == ast.Mutation {
		w.Header().Set("Allow", "POST")
		respondGraphQLError(ctx, w, http.StatusMethodNotAllowed, "mutations must be sent with POST")
		return
	}

	resp := h.Schema.Exec(ctx, req.Query, req.OperationName, req.Variables)
	if len(resp.Errors) > 0 {
		logger.Info("graphql request returned errors", "operationName", req.OperationName, "errors", len(resp.Errors))
	}

	respondJSON(ctx, w, http.StatusOK, resp)
}

func decodeBody(w http.ResponseWriter, r *http.Request) (graphQLRequest, error) {
	var req graphQLRequest
	body := http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return graphQLRequest{}, fmt.Errorf("request body exceeds %d bytes", tooLarge.Limit)
		}
		return graphQLRequest{}, errors.New("invalid request body")
	}
	return req, nil
}

func decodeQueryParams(values url.Values) (graphQLRequest, error) {
	req := graphQLRequest{
		Query:         values.Get("query"),
		OperationName: values.Get("operationName"),
	}
	if raw := values.Get("variables"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.Variables); err != nil {
			return graphQLRequest{}, errors.New("variables must be a JSON object")
		}
	}
	return req, nil
}

// operationType reports which operation a document will run. Documents that do
// not parse yield an empty operation and are left for the executor to reject.
func operationType(query, operationName string) ast.Operation {
	doc, err := parser.ParseQuery(&ast.Source{Input: query})
	if err != nil {
		return ""
	}
	op := doc.Operations.ForName(operationName)
	if op == nil {
		return ""
	}
	return op.Operation
}

func respondGraphQLError(ctx context.Context, w http.ResponseWriter, status int, message string) {
	respondJSON(ctx, w, status, graphQLErrorResponse{Errors: []graphQLError{{Message: message}}})
}

func respondJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.FromContext(ctx).Error("encode response body", "status", status, "error", err)
		return
	}

	logger := logging.FromContext(ctx)
	switch {
	case status >= http.StatusInternalServerError:
		logger.Error("request failed", "status", status, "response", payload)
	case status >= http.StatusBadRequest:
		logger.Warn("request returned client error", "status", status, "response", payload)
	}
}
