package domain

const (
	RequesterIdCtxKey = "sb-requesterId"
)

const (
	ImagePathPrefix = "/images/"
)

const (
	EventChannel = "saucebox.sauces"
)
