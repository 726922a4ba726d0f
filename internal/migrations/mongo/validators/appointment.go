package validators

import "go.mongodb.org/mongo-driver/bson"

var AppointmentValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"counsellor_id",
			"mode",
			"start_at",
			"end_at",
			"status",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"counsellor_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"student_id": bson.M{
				"bsonType":  "string",
				"maxLength": 128,
			},

			"session_token": bson.M{
				"bsonType":  "string",
				"maxLength": 256,
			},

			"student_email": bson.M{
				"bsonType": "string",
			},

			// HELPLINE requests are never persisted.
			"mode": bson.M{
				"bsonType": "string",
				"enum":     []string{"VIDEO", "OFFLINE"},
			},

			"start_at": bson.M{
				"bsonType": "date",
			},

			"end_at": bson.M{
				"bsonType": "date",
			},

			"status": bson.M{
				"bsonType": "string",
				"enum":     []string{"SCHEDULED", "CANCELLED"},
			},

			"meeting_link": bson.M{
				"bsonType": "string",
			},

			"ics_link": bson.M{
				"bsonType": "string",
			},

			"note": bson.M{
				"bsonType":  "string",
				"maxLength": 2000,
			},

			"reminder_sent_at": bson.M{
				"bsonType": "date",
			},

			"created_at": bson.M{
				"bsonType": "date",
			},

			"updated_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
