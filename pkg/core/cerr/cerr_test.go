package cerr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/momeni/gtfs-bounds/pkg/core/cerr"
	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	cause := errors.New("cause")
	cases := []struct {
		err    error
		status int
		config bool
	}{
		{cerr.BadRequest(cause), http.StatusBadRequest, true},
		{cerr.Conflict(cause), http.StatusConflict, true},
		{cerr.NotFound(cause), http.StatusNotFound, false},
		{cerr.BadGateway(cause), http.StatusBadGateway, false},
		{fmt.Errorf("ctx: %w", cerr.Conflict(cause)), http.StatusConflict, true},
		{cause, http.StatusInternalServerError, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.status, cerr.StatusCode(tc.err), "%v", tc.err)
		assert.Equal(t, tc.config, cerr.IsConfig(tc.err), "%v", tc.err)
		assert.ErrorIs(t, tc.err, cause)
	}
}
