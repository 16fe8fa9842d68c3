package job

import "errors"

var ErrJobPostNotFound = errors.New("job post not found")
