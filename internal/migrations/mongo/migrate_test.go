package mongo

import (
	"counsel/pkg/model"
	"reflect"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func schemaOf(t *testing.T, validator bson.M) (required []string, properties bson.M) {
	t.Helper()
	schema, ok := validator["$jsonSchema"].(bson.M)
	if !ok {
		t.Fatal("validator has no $jsonSchema")
	}
	required, _ = schema["required"].([]string)
	properties, _ = schema["properties"].(bson.M)
	return required, properties
}

func TestCollections_RequiredFieldsAreDescribed(t *testing.T) {
	for name, def := range Collections() {
		required, properties := schemaOf(t, def.Validator)
		if len(required) == 0 {
			t.Errorf("%s: no required fields", name)
		}
		for _, field := range required {
			if _, ok := properties[field]; !ok {
				t.Errorf("%s: required field %q has no property schema", name, field)
			}
		}
		if len(def.Indexes) == 0 {
			t.Errorf("%s: no indexes", name)
		}
	}
}

func TestAppointmentSchema_MatchesModel(t *testing.T) {
	def := Collections()["Appointments"]
	_, properties := schemaOf(t, def.Validator)

	typ := reflect.TypeOf(model.Appointment{})
	for i := 0; i < typ.NumField(); i++ {
		tag := strings.Split(typ.Field(i).Tag.Get("bson"), ",")[0]
		if tag == "" || tag == "-" {
			continue
		}
		if _, ok := properties[tag]; !ok {
			t.Errorf("bson field %q is missing from the appointment schema", tag)
		}
	}
}

func TestSlotLocksIndexes_ExpireOnDeadline(t *testing.T) {
	if len(SlotLocksIndexes) != 1 {
		t.Fatalf("expected one index, got %d", len(SlotLocksIndexes))
	}
	opts := SlotLocksIndexes[0].Options
	if opts == nil || opts.ExpireAfterSeconds == nil || *opts.ExpireAfterSeconds != 0 {
		t.Error("expires_at index must expire documents at the stored deadline")
	}
}
