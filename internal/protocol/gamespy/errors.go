package gamespy

import "errors"

var ErrKeyNotFound = errors.New("protocol: key not found")
