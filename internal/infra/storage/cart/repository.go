package cart

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/HSM-AppointmentService/internal/domain"
	"github.com/m04kA/HSM-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/HSM-AppointmentService/pkg/psqlbuilder"
)

// Repository репозиторий для работы с корзинами
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория корзин
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает корзину с позициями по ID
// Внутри транзакции корзина блокируется через FOR UPDATE — защита от
// одновременной оплаты и изменения состава
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Cart, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByUserID получает корзину пользователя (корзина 1:1 с пользователем)
func (r *Repository) GetByUserID(ctx context.Context, userID int64) (*domain.Cart, error) {
	return r.getOne(ctx, squirrel.Eq{"user_id": userID})
}

func (r *Repository) getOne(ctx context.Context, where squirrel.Eq) (*domain.Cart, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("id", "user_id", "created_at", "updated_at").
		From("carts").
		Where(where)

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: getOne - build select query: %v", ErrBuildQuery, err)
	}

	var cart domain.Cart
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&cart.ID,
		&cart.UserID,
		&createdAt,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrCartNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: getOne - scan cart: %v", ErrScanRow, err)
	}

	cart.CreatedAt = createdAt.Time
	cart.UpdatedAt = updatedAt.Time

	items, err := r.getItems(ctx, executor, cart.ID)
	if err != nil {
		return nil, err
	}
	cart.Items = items

	return &cart, nil
}

// GetOrCreateByUserID получает корзину пользователя, создавая её при отсутствии
// Создание корзины — явное пост-условие добавления в корзину, а не сигнал
func (r *Repository) GetOrCreateByUserID(ctx context.Context, userID int64) (*domain.Cart, error) {
	cart, err := r.GetByUserID(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if err != ErrCartNotFound {
		return nil, err
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("carts").
		Columns("user_id").
		Values(userID).
		Suffix("ON CONFLICT (user_id) DO UPDATE SET updated_at = NOW() RETURNING id, user_id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetOrCreateByUserID - build insert query: %v", ErrBuildQuery, err)
	}

	var created domain.Cart
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&created.ID,
		&created.UserID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: GetOrCreateByUserID - execute insert: %v", ErrExecQuery, err)
	}

	created.CreatedAt = createdAt.Time
	created.UpdatedAt = updatedAt.Time
	created.Items = make([]domain.CartItem, 0)

	return &created, nil
}

// UpsertItem добавляет позицию в корзину или увеличивает количество существующей
func (r *Repository) UpsertItem(ctx context.Context, item *domain.CartItem) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("cart_items").
		Columns("cart_id", "service_id", "quantity", "service_title", "unit_price").
		Values(item.CartID, item.ServiceID, item.Quantity, item.ServiceTitle, item.UnitPrice).
		Suffix("ON CONFLICT (cart_id, service_id) DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity RETURNING id").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpsertItem - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&item.ID); err != nil {
		return fmt.Errorf("%w: UpsertItem - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// RemoveItem удаляет позицию услуги из корзины
func (r *Repository) RemoveItem(ctx context.Context, cartID, serviceID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("cart_items").
		Where(squirrel.Eq{"cart_id": cartID}).
		Where(squirrel.Eq{"service_id": serviceID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: RemoveItem - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: RemoveItem - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: RemoveItem - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrItemNotFound
	}

	return nil
}

// ClearItems удаляет все позиции корзины
// Вызывается из транзакции оплаты — очистка корзины и переход mark-paid
// коммитятся или откатываются вместе
func (r *Repository) ClearItems(ctx context.Context, cartID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("cart_items").
		Where(squirrel.Eq{"cart_id": cartID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: ClearItems - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ClearItems - execute delete: %v", ErrExecQuery, err)
	}

	return nil
}

func (r *Repository) getItems(ctx context.Context, executor DBExecutor, cartID int64) ([]domain.CartItem, error) {
	query, args, err := psqlbuilder.Select(
		"id",
		"cart_id",
		"service_id",
		"quantity",
		"service_title",
		"unit_price",
		"added_at",
	).
		From("cart_items").
		Where(squirrel.Eq{"cart_id": cartID}).
		OrderBy("added_at ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: getItems - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getItems - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	items := make([]domain.CartItem, 0)
	for rows.Next() {
		var item domain.CartItem
		var addedAt sql.NullTime

		err := rows.Scan(
			&item.ID,
			&item.CartID,
			&item.ServiceID,
			&item.Quantity,
			&item.ServiceTitle,
			&item.UnitPrice,
			&addedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: getItems - scan row: %v", ErrScanRow, err)
		}

		item.AddedAt = addedAt.Time
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: getItems - rows error: %v", ErrScanRow, err)
	}

	return items, nil
}
