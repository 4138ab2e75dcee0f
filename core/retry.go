package core

import (
	"time"

	retry "github.com/avast/retry-go"
)

// Query-side retry options. Submission retries are governed per-path by
// LinkConfig instead.
var (
	rtyAttNum = uint(5)
	rtyAtt    = retry.Attempts(rtyAttNum)
	rtyDel    = retry.Delay(time.Millisecond * 400)
	rtyErr    = retry.LastErrorOnly(true)
)
