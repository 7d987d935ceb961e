package main

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

var ErrNotFound = errors.New("not found")

// isUniqueViolation reports whether err is a Postgres unique constraint error.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// --- Users & auth ---

const userCols = `id, username, email, first_name, last_name, created_at`

func (s *Store) CreateUser(ctx context.Context, username, email, passwordHash, firstName, lastName string) (User, error) {
	var u User
	err := s.db.QueryRowContext(ctx, `insert into users(username, email, password_hash, first_name, last_name)
		values($1,$2,$3,$4,$5) returning `+userCols, username, email, passwordHash, firstName, lastName).
		Scan(&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName, &u.CreatedAt)
	return u, err
}

func (s *Store) UserByEmail(ctx context.Context, email string) (User, error) {
	var u User
	err := s.db.QueryRowContext(ctx, `select `+userCols+` from users where lower(email)=lower($1)`, email).
		Scan(&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

func (s *Store) UserByID(ctx context.Context, id int64) (User, error) {
	var u User
	err := s.db.QueryRowContext(ctx, `select `+userCols+` from users where id=$1`, id).
		Scan(&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

func (s *Store) EmailExists(ctx context.Context, email string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `select count(*) from users where lower(email)=lower($1)`, email).Scan(&n)
	return n > 0, err
}

func (s *Store) UsernameExists(ctx context.Context, username string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `select count(*) from users where username=$1`, username).Scan(&n)
	return n > 0, err
}

func (s *Store) UserExists(ctx context.Context, id int64) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `select count(*) from users where id=$1`, id).Scan(&n)
	return n > 0, err
}

// get user creds by email, including password hash
func (s *Store) userCredsByEmail(ctx context.Context, email string) (User, string, error) {
	var u User
	var hash string
	err := s.db.QueryRowContext(ctx, `select `+userCols+`, password_hash from users where lower(email)=lower($1)`, email).
		Scan(&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName, &u.CreatedAt, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, "", ErrNotFound
	}
	return u, hash, err
}

// GetOrCreateToken returns the user's durable API token, minting one on
// first use. Concurrent first logins race on the unique(user_id) constraint;
// the loser re-reads the winner's token.
func (s *Store) GetOrCreateToken(ctx context.Context, userID int64) (string, error) {
	var token string
	err := s.db.QueryRowContext(ctx, `select token from auth_tokens where user_id=$1`, userID).Scan(&token)
	if err == nil {
		return token, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", err
	}
	b := make([]byte, 20)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	token = hex.EncodeToString(b)
	if _, err := s.db.ExecContext(ctx, `insert into auth_tokens(user_id, token) values($1,$2)
		on conflict (user_id) do nothing`, userID, token); err != nil {
		return "", err
	}
	err = s.db.QueryRowContext(ctx, `select token from auth_tokens where user_id=$1`, userID).Scan(&token)
	return token, err
}

func (s *Store) UserByToken(ctx context.Context, token string) (User, error) {
	var u User
	err := s.db.QueryRowContext(ctx, `select u.id, u.username, u.email, u.first_name, u.last_name, u.created_at
		from auth_tokens t join users u on u.id=t.user_id where t.token=$1`, token).
		Scan(&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

// --- Boards & membership ---

const boardSummaryCols = `b.id, b.title,
	(select count(*) from board_members m where m.board_id=b.id) as member_count,
	(select count(*) from tasks t where t.board_id=b.id) as ticket_count,
	(select count(*) from tasks t join columns c on c.id=t.column_id
		where t.board_id=b.id and c.status='` + StatusTodo + `') as tasks_to_do_count,
	(select count(*) from tasks t where t.board_id=b.id and t.priority='` + PriorityHigh + `') as tasks_high_prio_count,
	b.owner_id`

// ListBoards returns the distinct union of boards the user owns or is a
// member of, ordered by title.
func (s *Store) ListBoards(ctx context.Context, userID int64) ([]BoardSummary, error) {
	rows, err := s.db.QueryContext(ctx, `select `+boardSummaryCols+` from boards b
		where b.owner_id=$1 or exists (select 1 from board_members m where m.board_id=b.id and m.user_id=$1)
		order by b.title, b.id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []BoardSummary{}
	for rows.Next() {
		var b BoardSummary
		if err := rows.Scan(&b.ID, &b.Title, &b.MemberCount, &b.TicketCount, &b.TasksToDoCount, &b.TasksHighPrio, &b.OwnerID); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *Store) BoardSummaryByID(ctx context.Context, id int64) (BoardSummary, error) {
	var b BoardSummary
	err := s.db.QueryRowContext(ctx, `select `+boardSummaryCols+` from boards b where b.id=$1`, id).
		Scan(&b.ID, &b.Title, &b.MemberCount, &b.TicketCount, &b.TasksToDoCount, &b.TasksHighPrio, &b.OwnerID)
	if errors.Is(err, sql.ErrNoRows) {
		return BoardSummary{}, ErrNotFound
	}
	return b, err
}

var defaultColumns = []struct {
	Name     string
	Status   string
	Position int64
}{
	{"To-do", StatusTodo, 1},
	{"In-progress", StatusInProgress, 2},
	{"Review", StatusReview, 3},
	{"Done", StatusDone, 4},
}

// CreateBoard inserts the board, its member set (always including the owner)
// and the four fixed status columns in one transaction.
func (s *Store) CreateBoard(ctx context.Context, ownerID int64, title string, memberIDs []int64) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()
	var id int64
	if err := tx.QueryRowContext(ctx, `insert into boards(title, owner_id) values($1,$2) returning id`, title, ownerID).Scan(&id); err != nil {
		return 0, err
	}
	if _, err := tx.ExecContext(ctx, `insert into board_members(board_id, user_id) values($1,$2)`, id, ownerID); err != nil {
		return 0, err
	}
	for _, m := range memberIDs {
		if _, err := tx.ExecContext(ctx, `insert into board_members(board_id, user_id) values($1,$2)
			on conflict do nothing`, id, m); err != nil {
			return 0, err
		}
	}
	for _, c := range defaultColumns {
		if _, err := tx.ExecContext(ctx, `insert into columns(board_id, name, status, position) values($1,$2,$3,$4)`,
			id, c.Name, c.Status, c.Position); err != nil {
			return 0, err
		}
	}
	return id, tx.Commit()
}

func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *Store) GetBoard(ctx context.Context, id int64) (Board, error) {
	var b Board
	err := s.db.QueryRowContext(ctx, `select id, title, owner_id, created_at from boards where id=$1`, id).
		Scan(&b.ID, &b.Title, &b.OwnerID, &b.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Board{}, ErrNotFound
	}
	return b, err
}

// UpdateBoard applies a title change, a member-set replacement, or both in a
// single transaction. Nil means leave untouched; an empty member slice clears
// the set. The owner is not implicitly kept among the members: owner
// authorization never depends on the member rows.
func (s *Store) UpdateBoard(ctx context.Context, id int64, title *string, memberIDs *[]int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if title != nil {
		res, err := tx.ExecContext(ctx, `update boards set title=$1 where id=$2`, *title, id)
		if err != nil {
			return err
		}
		n, _ := res.RowsAffected()
		if n == 0 {
			return ErrNotFound
		}
	}
	if memberIDs != nil {
		if _, err := tx.ExecContext(ctx, `delete from board_members where board_id=$1`, id); err != nil {
			return err
		}
		for _, m := range *memberIDs {
			if _, err := tx.ExecContext(ctx, `insert into board_members(board_id, user_id) values($1,$2)
				on conflict do nothing`, id, m); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

func (s *Store) DeleteBoard(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `delete from boards where id=$1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) BoardMembers(ctx context.Context, boardID int64) ([]User, error) {
	rows, err := s.db.QueryContext(ctx, `select u.id, u.username, u.email, u.first_name, u.last_name, u.created_at
		from board_members m join users u on u.id=m.user_id where m.board_id=$1 order by u.id`, boardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []User{}
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *Store) IsBoardOwner(ctx context.Context, boardID, userID int64) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `select count(*) from boards where id=$1 and owner_id=$2`, boardID, userID).Scan(&n)
	return n > 0, err
}

// CanAccessBoard reports owner-or-member access. The owner is authorized
// regardless of the member set.
func (s *Store) CanAccessBoard(ctx context.Context, userID, boardID int64) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `select count(*) from boards b
		where b.id=$1 and (b.owner_id=$2 or exists
			(select 1 from board_members m where m.board_id=b.id and m.user_id=$2))`, boardID, userID).Scan(&n)
	return n > 0, err
}

// --- Columns ---

const columnCols = `id, board_id, name, status, position`

// ColumnsForUser lists columns of all boards the user can read.
func (s *Store) ColumnsForUser(ctx context.Context, userID int64) ([]Column, error) {
	rows, err := s.db.QueryContext(ctx, `select c.id, c.board_id, c.name, c.status, c.position
		from columns c join boards b on b.id=c.board_id
		where b.owner_id=$1 or exists (select 1 from board_members m where m.board_id=b.id and m.user_id=$1)
		order by c.board_id, c.position, c.id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Column{}
	for rows.Next() {
		var c Column
		if err := rows.Scan(&c.ID, &c.BoardID, &c.Name, &c.Status, &c.Position); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) GetColumn(ctx context.Context, id int64) (Column, error) {
	var c Column
	err := s.db.QueryRowContext(ctx, `select `+columnCols+` from columns where id=$1`, id).
		Scan(&c.ID, &c.BoardID, &c.Name, &c.Status, &c.Position)
	if errors.Is(err, sql.ErrNoRows) {
		return Column{}, ErrNotFound
	}
	return c, err
}

// ColumnByStatus resolves the unique column of the given status on a board.
func (s *Store) ColumnByStatus(ctx context.Context, boardID int64, status string) (Column, error) {
	var c Column
	err := s.db.QueryRowContext(ctx, `select `+columnCols+` from columns where board_id=$1 and status=$2`, boardID, status).
		Scan(&c.ID, &c.BoardID, &c.Name, &c.Status, &c.Position)
	if errors.Is(err, sql.ErrNoRows) {
		return Column{}, ErrNotFound
	}
	return c, err
}

func (s *Store) UpdateColumn(ctx context.Context, id int64, name *string, position *int64) error {
	if name == nil && position == nil {
		return nil
	}
	set := []string{}
	args := []any{}
	idx := 1
	if name != nil {
		set = append(set, fmt.Sprintf("name=$%d", idx))
		args = append(args, *name)
		idx++
	}
	if position != nil {
		set = append(set, fmt.Sprintf("position=$%d", idx))
		args = append(args, *position)
		idx++
	}
	args = append(args, id)
	res, err := s.db.ExecContext(ctx, fmt.Sprintf("update columns set %s where id=$%d", joinComma(set), idx), args...)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func joinComma(parts []string) string {
	if len(parts) == 0 {
		return ""
	}
	out := parts[0]
	for i := 1; i < len(parts); i++ {
		out += ", " + parts[i]
	}
	return out
}

const schema = `
create table if not exists users(
	id bigserial primary key,
	username text unique not null,
	email text not null,
	password_hash text not null default '',
	first_name text not null default '',
	last_name text not null default '',
	created_at timestamptz not null default now()
);
create unique index if not exists users_email_lower_idx on users(lower(email));

create table if not exists auth_tokens(
	id bigserial primary key,
	user_id bigint unique not null references users(id) on delete cascade,
	token text unique not null,
	created_at timestamptz not null default now()
);

create table if not exists boards(
	id bigserial primary key,
	title text not null check (length(title) > 0),
	owner_id bigint not null references users(id) on delete cascade,
	created_at timestamptz not null default now()
);

create table if not exists board_members(
	board_id bigint not null references boards(id) on delete cascade,
	user_id bigint not null references users(id) on delete cascade,
	primary key(board_id, user_id)
);

create table if not exists columns(
	id bigserial primary key,
	board_id bigint not null references boards(id) on delete cascade,
	name text not null check (length(name) > 0),
	status text not null,
	position bigint not null default 0,
	unique(board_id, status)
);
create index if not exists columns_board_idx on columns(board_id);

create table if not exists tasks(
	id bigserial primary key,
	board_id bigint not null references boards(id) on delete cascade,
	column_id bigint references columns(id) on delete set null,
	title text not null check (length(title) > 0),
	description text not null default '',
	due_date date,
	priority text not null,
	assignee_id bigint references users(id) on delete set null,
	reviewer_id bigint references users(id) on delete set null,
	position bigint not null default 0,
	created_by bigint references users(id) on delete set null,
	created_at timestamptz not null default now(),
	updated_at timestamptz not null default now(),
	completed_at timestamptz
);
create index if not exists tasks_board_idx on tasks(board_id);
create index if not exists tasks_assignee_idx on tasks(assignee_id);
create index if not exists tasks_reviewer_idx on tasks(reviewer_id);

create table if not exists activities(
	id bigserial primary key,
	task_id bigint not null references tasks(id) on delete cascade,
	author_id bigint references users(id) on delete set null,
	message text not null check (length(message) > 0),
	created_at timestamptz not null default now()
);
create index if not exists activities_task_idx on activities(task_id);
`
