package validate

import (
	"testing"

	perr "ladderbot/internal/platform/errors"
	"ladderbot/internal/platform/testkit"
)

type sample struct {
	Token string `env:"SAMPLE_TOKEN" validate:"required"`
	Count int    `validate:"gte=1"`
	Inner inner
}

type inner struct {
	Mode string `env:"SAMPLE_MODE" validate:"oneof=a b"`
}

func TestStructOK(t *testing.T) {
	if err := Struct(sample{Token: "x", Count: 1, Inner: inner{Mode: "a"}}); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
}

func TestStructNamesEnvVars(t *testing.T) {
	err := Struct(sample{Inner: inner{Mode: "a"}})
	testkit.MustEqual(t, true, perr.IsCode(err, perr.ErrorCodeValidation))
	testkit.MustContain(t, err.Error(), "SAMPLE_TOKEN is a required field")
	testkit.MustContain(t, err.Error(), "Count must be 1 or greater")

	e, ok := perr.As(err)
	testkit.MustEqual(t, true, ok)
	testkit.MustEqual(t, "SAMPLE_TOKEN", e.Field())
}

func TestStructNested(t *testing.T) {
	err := Struct(sample{Token: "x", Count: 2, Inner: inner{Mode: "z"}})
	testkit.MustContain(t, err.Error(), "SAMPLE_MODE must be one of [a b]")
}

func TestStructRejectsNonStruct(t *testing.T) {
	err := Struct(42)
	testkit.MustEqual(t, true, perr.IsCode(err, perr.ErrorCodeValidation))
}
