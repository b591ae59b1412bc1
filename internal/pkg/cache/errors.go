package cache

import "github.com/pkg/errors"

var ErrNotFound = errors.New("cache: key not found")
