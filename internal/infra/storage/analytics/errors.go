package analytics

import "errors"

var (
	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("analytics.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("analytics.repository: failed to execute query")

	// ErrEncode возвращается, если свойства события не сериализуются в JSON
	ErrEncode = errors.New("analytics.repository: failed to encode properties")
)
