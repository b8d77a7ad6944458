package canonical

// synonyms resolves normalized vendor spellings to canonical types. Keys are
// already lower-cased and underscored; Normalize applies that first.
var synonyms = map[string]string{
	"distraction":               "distraction",
	"distracted_driving":        "distraction",
	"driver_distraction":        "distraction",
	"cell_phone":                "cell_phone",
	"cell_phone_usage":          "cell_phone",
	"phone_use":                 "cell_phone",
	"cellphone":                 "cell_phone",
	"phone_usage":               "cell_phone",
	"drowsiness":                "drowsiness",
	"drowsy":                    "drowsiness",
	"drowsy_driving":            "drowsiness",
	"fatigue":                   "drowsiness",
	"driver_drowsiness":         "drowsiness",
	"close_following":           "close_following",
	"following_distance":        "close_following",
	"tailgating":                "close_following",
	"forward_collision_warning": "forward_collision_warning",
	"forward_collision":         "forward_collision_warning",
	"fcw":                       "forward_collision_warning",
	"collision":                 "collision",
	"crash":                     "collision",
	"near_collision":            "near_collision",
	"near_crash":                "near_collision",
	"stop_sign_violation":       "stop_sign_violation",
	"stop_sign":                 "stop_sign_violation",
	"ran_stop_sign":             "stop_sign_violation",
	"unsafe_lane_change":        "unsafe_lane_change",
	"lane_change":               "unsafe_lane_change",
	"aggregated_lane_swerving":  "lane_swerving",
	"lane_swerving":             "lane_swerving",
	"lane_swerve":               "lane_swerving",
	"hard_brake":                "hard_brake",
	"hard_braking":              "hard_brake",
	"harsh_brake":               "hard_brake",
	"harsh_braking":             "hard_brake",
	"seat_belt_violation":       "seat_belt_violation",
	"seatbelt":                  "seat_belt_violation",
	"seatbelt_violation":        "seat_belt_violation",
	"no_seatbelt":               "seat_belt_violation",
	"seat_belt":                 "seat_belt_violation",
	"camera_obstruction":        "camera_obstruction",
	"obstruction":               "camera_obstruction",
	"camera_blocked":            "camera_obstruction",
	"smoking":                   "smoking",
	"vaping":                    "smoking",
	"hard_accel":                "hard_accel",
	"hard_acceleration":         "hard_accel",
	"harsh_acceleration":        "hard_accel",
	"rapid_acceleration":        "hard_accel",
	"hard_corner":               "hard_corner",
	"hard_cornering":            "hard_corner",
	"hard_turn":                 "hard_corner",
	"harsh_cornering":           "hard_corner",
	"harsh_turn":                "hard_corner",
	"speed_violation":           "speed_violation",
	"speeding":                  "speed_violation",
	"unsafe_parking":            "unsafe_parking",
}

// displayNames holds human-readable labels for the curated vocabulary.
var displayNames = map[string]string{
	"distraction":               "Distraction",
	"cell_phone":                "Cell Phone",
	"drowsiness":                "Drowsiness",
	"close_following":           "Close Following",
	"forward_collision_warning": "Forward Collision Warning",
	"collision":                 "Collision",
	"near_collision":            "Near Collision",
	"stop_sign_violation":       "Stop Sign Violation",
	"unsafe_lane_change":        "Unsafe Lane Change",
	"lane_swerving":             "Lane Swerving",
	"hard_brake":                "Hard Brake",
	"seat_belt_violation":       "Seatbelt Violation",
	"camera_obstruction":        "Camera Obstruction",
	"smoking":                   "Smoking",
	"unsafe_parking":            "Unsafe Parking",
	"hard_accel":                "Hard Acceleration",
	"hard_corner":               "Hard Corner",
	"speed_violation":           "Speed Violation",
}

// severityRanks orders events within a tier; lower sorts first.
var severityRanks = map[string]int{
	"collision":                 1,
	"near_collision":            2,
	"forward_collision_warning": 3,
	"distraction":               4,
	"cell_phone":                5,
	"drowsiness":                6,
	"stop_sign_violation":       7,
	"unsafe_lane_change":        8,
	"lane_swerving":             8, // same severity as unsafe lane change (pre-crash indicator)
	"close_following":           9,
	"hard_brake":                10,
	"seat_belt_violation":       11,
	"camera_obstruction":        12,
	"smoking":                   13,
	"unsafe_parking":            13,
	"hard_accel":                14,
	"hard_corner":               15,
	"speed_violation":           16,
}
