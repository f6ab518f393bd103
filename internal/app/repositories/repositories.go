package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/learnhub/internal/db"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository         *UserRepository
	CourseRepository       *CourseRepository
	LectureRepository      *LectureRepository
	EnrollmentRepository   *EnrollmentRepository
	PurchaseRepository     *PurchaseRepository
	GatewayEventRepository *GatewayEventRepository
}

// NewRepositories initializes all repositories
func NewRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:         NewUserRepository(pool),
		CourseRepository:       NewCourseRepository(pool),
		LectureRepository:      NewLectureRepository(pool),
		EnrollmentRepository:   NewEnrollmentRepository(pool),
		PurchaseRepository:     NewPurchaseRepository(pool),
		GatewayEventRepository: NewGatewayEventRepository(pool),
	}
}

// store is embedded by every repository. Queries go through conn so that a
// transaction opened with db.WithTransaction is picked up from the context.
type store struct {
	pool *pgxpool.Pool
	sb   squirrel.StatementBuilderType
}

func newStore(pool *pgxpool.Pool) store {
	return store{
		pool: pool,
		sb:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (s store) conn(ctx context.Context) db.Querier {
	return db.Conn(ctx, s.pool)
}
