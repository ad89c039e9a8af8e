package mail

import (
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Filter narrows a mail listing. Empty values and the literal "all" are ignored.
type Filter struct {
	Search     string
	Priority   string
	Status     string
	Department string
	Page       int64
	Limit      int64
}

var searchFields = []string{"reference", "tracking_code", "counterpart", "subject", "details"}

func (f Filter) BSON() bson.M {
	filter := bson.M{}
	if s := strings.TrimSpace(f.Search); s != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
		or := make(bson.A, 0, len(searchFields))
		for _, field := range searchFields {
			or = append(or, bson.M{field: re})
		}
		filter["$or"] = or
	}
	if v, ok := selected(f.Priority); ok {
		filter["priority"] = strings.ToLower(v)
	}
	if v, ok := selected(f.Status); ok {
		filter["status"] = strings.ToLower(v)
	}
	if v, ok := selected(f.Department); ok {
		filter["department"] = v
	}
	return filter
}

func selected(v string) (string, bool) {
	v = strings.TrimSpace(v)
	if v == "" || strings.EqualFold(v, "all") {
		return "", false
	}
	return v, true
}
