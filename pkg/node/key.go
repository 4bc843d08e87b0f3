package node

import (
	"encoding/base64"
	"fmt"
	"math"
	"strconv"
	"time"
)

// KeyString formats a scalar value the way it appears as a map key in the
// native projection.
func KeyString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		switch {
		case math.IsInf(val, 1):
			return ".inf"
		case math.IsInf(val, -1):
			return "-.inf"
		case math.IsNaN(val):
			return ".nan"
		}
		return strconv.FormatFloat(val, 'g', -1, 64)
	case []byte:
		return base64.StdEncoding.EncodeToString(val)
	case time.Time:
		return val.Format(time.RFC3339Nano)
	default:
		return fmt.Sprintf("%v", val)
	}
}
