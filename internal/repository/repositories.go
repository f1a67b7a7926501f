package repository

// Repositories bundles every store used by the services.
type Repositories struct {
	Users     UserRepository
	Posts     PostRepository
	Comments  CommentRepository
	Likes     LikeRepository
	Favorites FavoriteRepository
}

// NewPostgres returns pgx-backed repositories sharing db.
func NewPostgres(db DB) Repositories {
	return Repositories{
		Users:     NewUserRepository(db),
		Posts:     NewPostRepository(db),
		Comments:  NewCommentRepository(db),
		Likes:     NewLikeRepository(db),
		Favorites: NewFavoriteRepository(db),
	}
}
