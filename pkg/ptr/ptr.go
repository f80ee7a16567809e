package ptr

// Ptr возвращает указатель на значение
func Ptr[T any](v T) *T {
	return &v
}

// Deref возвращает значение по указателю или значение по умолчанию для nil
func Deref[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}
