package repository

// Repository defines the interface for admin list loading
type Repository interface {
	Load() ([]int64, error)
}
