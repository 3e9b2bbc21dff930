package validate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type signup struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"displayName" validate:"min=2,max=100"`
	Age   int    `json:"age" validate:"gte=0"`
}

func TestStructCollectsMessagesByJSONName(t *testing.T) {
	verr := Struct(signup{Email: "nope", Name: "a"}, Messages{
		"email":           "Please enter a valid email address",
		"displayName.min": "Name must be at least 2 characters",
	})
	err := verr.OrNil()
	require.Error(t, err)

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	require.Equal(t, "Please enter a valid email address", ve.Fields["email"])
	require.Equal(t, "Name must be at least 2 characters", ve.Fields["displayName"])
	require.NotContains(t, ve.Fields, "age")
}

func TestStructDefaultMessage(t *testing.T) {
	verr := Struct(signup{Email: "a@b.co", Name: "ok", Age: -1}, nil)
	require.Equal(t, "failed gte validation", verr.Fields["age"])
}

func TestStructValid(t *testing.T) {
	require.NoError(t, Struct(signup{Email: "a@b.co", Name: "Jo"}, nil).OrNil())
}

func TestAddKeepsFirstMessage(t *testing.T) {
	ve := &ValidationError{}
	ve.Add("price", "first")
	ve.Add("price", "second")
	require.Equal(t, "first", ve.Fields["price"])
	require.Equal(t, "validation failed: price: first", ve.Error())
}
