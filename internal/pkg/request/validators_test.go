package request

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterValidators(t *testing.T) {
	require.NoError(t, RegisterValidators())

	type payload struct {
		Start string  `binding:"required,hhmm"`
		Slug  *string `binding:"omitempty,slug"`
	}
	slug := func(s string) *string { return &s }

	tests := []struct {
		name    string
		in      payload
		wantErr bool
	}{
		{name: "valid", in: payload{Start: "09:30", Slug: slug("gentle-cuts")}},
		{name: "midnight", in: payload{Start: "00:00"}},
		{name: "last minute", in: payload{Start: "23:59"}},
		{name: "hour 24", in: payload{Start: "24:00"}, wantErr: true},
		{name: "seconds", in: payload{Start: "09:30:00"}, wantErr: true},
		{name: "single digit hour", in: payload{Start: "9:30"}, wantErr: true},
		{name: "uppercase slug", in: payload{Start: "09:00", Slug: slug("Gentle")}, wantErr: true},
		{name: "short slug", in: payload{Start: "09:00", Slug: slug("ab")}, wantErr: true},
		{name: "trailing dash", in: payload{Start: "09:00", Slug: slug("cuts-")}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := binding.Validator.ValidateStruct(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
