package validators

import "go.mongodb.org/mongo-driver/bson"

var CounsellorValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"user_id",
			"display_name",
			"default_duration_min",
			"availability",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"user_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"display_name": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 200,
			},

			"contact_email": bson.M{
				"bsonType": "string",
				"pattern":  `^[^@\s]+@[^@\s]+$`,
			},

			"default_duration_min": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  0,
				"maximum":  480,
			},

			"office_location": bson.M{
				"bsonType":  "string",
				"maxLength": 500,
			},

			"availability": bson.M{
				"bsonType": "array",
				"items": bson.M{
					"bsonType": "object",
					"required": []string{"weekday", "start_time", "end_time"},
					"properties": bson.M{
						"weekday": bson.M{
							"bsonType": []string{"int", "long"},
							"minimum":  0,
							"maximum":  6,
						},
						"start_time": bson.M{
							"bsonType": "string",
						},
						"end_time": bson.M{
							"bsonType": "string",
						},
					},
				},
			},
		},
	},
}
