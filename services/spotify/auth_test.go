package spotify

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/oauth2"

	"soundscope/blueprint"
)

func TestMapExchangeErrorMissingAccessToken(t *testing.T) {
	// oauth2 reports a 2xx token response without an access_token as a
	// plain error and a nil token, so classification has to happen on
	// the error itself
	err := mapExchangeError(errors.New("oauth2: server response missing access_token"))
	assert.ErrorIs(t, err, blueprint.ErrTokenMissing)
}

func TestMapExchangeErrorProviderRejection(t *testing.T) {
	retrieveErr := &oauth2.RetrieveError{
		Response: &http.Response{StatusCode: http.StatusBadRequest},
		Body:     []byte(`{"error":"invalid_grant"}`),
	}
	err := mapExchangeError(retrieveErr)
	assert.ErrorIs(t, err, blueprint.ErrUpstreamFailure)
	assert.NotErrorIs(t, err, blueprint.ErrTokenMissing)
}

func TestMapExchangeErrorTransportFailure(t *testing.T) {
	err := mapExchangeError(errors.New("dial tcp: connection refused"))
	assert.ErrorIs(t, err, blueprint.ErrUpstreamFailure)
}
