// Package reefchain synthesizes Ethereum-shaped responses for a Reef
// Substrate node combined with its GraphQL index (spec §4.5). Reef has no
// native Ethereum RPC surface, so every handler here composes data from a
// Substrate JSON-RPC call and/or a GraphQL query.
//
// No GraphQL *client* library appears anywhere in the retrieved corpus
// (graph-gophers/graphql-go, the one GraphQL dependency present, is a
// server-side schema-execution engine); this file is a small net/http
// POST-JSON client in the same shape as the teacher's fork.RPCClient
// abstraction (see DESIGN.md).
package reefchain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// GraphQLClient posts queries to the Reef index endpoint (spec §3
// BackendConfig "graphUrl").
type GraphQLClient struct {
	url string
	hc  *http.Client
}

// NewGraphQLClient builds a client bound to the index's GraphQL endpoint.
func NewGraphQLClient(url string) *GraphQLClient {
	return &GraphQLClient{url: url, hc: &http.Client{}}
}

type graphqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Query runs a GraphQL query and decodes the "data" field into out.
func (c *GraphQLClient) Query(ctx context.Context, query string, variables map[string]interface{}, out interface{}) error {
	body, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var gr graphqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return fmt.Errorf("reefchain: decoding graphql response: %w", err)
	}
	if len(gr.Errors) > 0 {
		return fmt.Errorf("reefchain: graphql error: %s", gr.Errors[0].Message)
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(gr.Data, out)
}
