package network

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/samber/lo"
)

// GraphQLError is one entry of a GraphQL "errors" array.
type GraphQLError struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

type envelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []GraphQLError  `json:"errors"`
}

// ErrNoData is returned when a GraphQL response carries neither data nor errors.
var ErrNoData = errors.New("graphql response has no data")

// DecodeGraphQL reads a GraphQL response and unmarshals its data member into out.
// Partial data alongside errors is accepted.
func DecodeGraphQL(r io.Reader, out any) error {
	var env envelope
	if err := json.NewDecoder(r).Decode(&env); err != nil {
		return fmt.Errorf("decode graphql response: %w", err)
	}

	if len(env.Data) == 0 || string(env.Data) == "null" {
		if len(env.Errors) > 0 {
			messages := lo.Map(env.Errors, func(e GraphQLError, _ int) string { return e.Message })
			return fmt.Errorf("graphql: %s", strings.Join(messages, "; "))
		}
		return ErrNoData
	}

	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode graphql data: %w", err)
	}
	return nil
}
