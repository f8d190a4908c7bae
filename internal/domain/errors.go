package domain

import "errors"

var (
	ErrContactNotFound = errors.New("contact not found")
	ErrReportNotFound  = errors.New("report not found")
	ErrContactExists   = errors.New("contact already exists")
	ErrReportExists    = errors.New("report already exists")
)
