package wizard

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/javajoker/campaign-wizard/internal/models"
	"github.com/javajoker/campaign-wizard/internal/utils"
)

var ErrMalformedPayload = errors.New("payload must be a JSON object")

// ValidationFailedError lists every field a step schema rejected.
type ValidationFailedError struct {
	Step   Step
	Fields []utils.ValidationError
}

func (e *ValidationFailedError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.Field)
	}
	return fmt.Sprintf("step %d validation failed: %s", e.Step, strings.Join(names, ", "))
}

// Definition is the registry entry for one step: how to decode its payload
// and how to map it onto the draft.
type Definition struct {
	Step   Step
	Decode func(fields map[string]json.RawMessage) (Payload, error)
	Map    func(p Payload, stamp Stamp) models.DraftDelta
}

type fieldDecoder interface {
	json.Unmarshaler
	isNull() bool
	value() interface{}
}

type crossChecker interface {
	crossCheck() []utils.ValidationError
}

var definitions = map[Step]Definition{
	Step1: define(Step1, mapStep1),
	Step2: define(Step2, mapStep2),
	Step3: define(Step3, mapStep3),
	Step4: define(Step4, mapStep4),
	Step5: define(Step5, mapStep5),
}

// Lookup returns the registry entry for step.
func Lookup(step Step) (Definition, error) {
	def, ok := definitions[step]
	if !ok {
		return Definition{}, ErrInvalidStep
	}
	return def, nil
}

// Parse validates body against the schema of step.
func Parse(step Step, body []byte) (Payload, error) {
	def, err := Lookup(step)
	if err != nil {
		return nil, err
	}
	fields, err := DecodeObject(body)
	if err != nil {
		return nil, err
	}
	return def.Decode(fields)
}

// DecodeObject splits a JSON object into its raw members.
func DecodeObject(body []byte) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		return nil, ErrMalformedPayload
	}
	return fields, nil
}

func define[T any, P interface {
	*T
	Payload
}](step Step, mapFn func(P, Stamp) models.DraftDelta) Definition {
	return Definition{
		Step: step,
		Decode: func(fields map[string]json.RawMessage) (Payload, error) {
			p := P(new(T))
			if errs := decodeFields(fields, p); len(errs) > 0 {
				return nil, &ValidationFailedError{Step: step, Fields: errs}
			}
			return p, nil
		},
		Map: func(p Payload, stamp Stamp) models.DraftDelta {
			delta := mapFn(p.(P), stamp)
			delta[models.ColumnCurrentStep] = step.Int()
			return delta
		},
	}
}

var dateType = reflect.TypeOf(Date{})

// decodeFields fills the Field members of target from fields, collecting
// every decode and validation failure instead of stopping at the first.
// Cross-field checks run over whatever decoded cleanly.
func decodeFields(fields map[string]json.RawMessage, target interface{}) []utils.ValidationError {
	var errs []utils.ValidationError

	rv := reflect.ValueOf(target).Elem()
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		name := strings.SplitN(sf.Tag.Get("json"), ",", 2)[0]
		raw, ok := fields[name]
		if !ok {
			continue
		}

		decoder, ok := rv.Field(i).Addr().Interface().(fieldDecoder)
		if !ok {
			continue
		}

		if err := decoder.UnmarshalJSON(raw); err != nil {
			// left absent so cross-field checks skip it
			rv.Field(i).Set(reflect.Zero(sf.Type))
			errs = append(errs, utils.ValidationError{
				Field:   name,
				Tag:     "type",
				Message: name + " has an invalid type",
			})
			continue
		}

		if decoder.isNull() {
			if sf.Tag.Get("wizard") == "nonnull" {
				errs = append(errs, utils.ValidationError{
					Field:   name,
					Tag:     "nonnull",
					Message: name + " must not be null",
				})
			}
			continue
		}

		errs = append(errs, validateValue(name, sf.Tag.Get("validate"), decoder.value())...)
	}

	if checker, ok := target.(crossChecker); ok {
		errs = append(errs, checker.crossCheck()...)
	}

	return errs
}

func validateValue(name, tag string, v interface{}) []utils.ValidationError {
	var errs []utils.ValidationError

	if tag != "" {
		errs = append(errs, utils.FieldValidationErrors(name, utils.ValidateVar(v, tag))...)
	}

	rv := reflect.ValueOf(v)
	switch {
	case rv.Kind() == reflect.Struct && rv.Type() != dateType:
		errs = append(errs, utils.FieldValidationErrors(name, utils.ValidateStruct(v))...)
	case rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Struct:
		for i := 0; i < rv.Len(); i++ {
			elemName := fmt.Sprintf("%s[%d]", name, i)
			errs = append(errs, utils.FieldValidationErrors(elemName, utils.ValidateStruct(rv.Index(i).Interface()))...)
		}
	}

	return errs
}
