package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tournament-settlement-system/models"
	"tournament-settlement-system/settlement"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

type fixture struct {
	t       *testing.T
	db      *gorm.DB
	season  models.Season
	created time.Time
}

func newFixture(t *testing.T) *fixture {
	db := newTestDB(t)
	f := &fixture{t: t, db: db, created: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	f.season = models.Season{ID: uuid.NewString(), Name: "Season 1", IsActive: true}
	f.create(&f.season)
	return f
}

func (f *fixture) create(v interface{}) {
	f.t.Helper()
	require.NoError(f.t, f.db.Create(v).Error)
}

func (f *fixture) tournament(name string, fee int64) models.Tournament {
	f.created = f.created.Add(time.Hour)
	t := models.Tournament{ID: uuid.NewString(), SeasonID: f.season.ID, Name: name, EntryFee: fee, Status: models.TournamentStatusActive}
	t.CreatedAt = f.created
	f.create(&t)
	return t
}

func (f *fixture) player(name string) models.Player {
	p := models.Player{ID: "p-" + strings.ToLower(name), DisplayName: name}
	f.create(&p)
	return p
}

func (f *fixture) exemptPlayer(name string) models.Player {
	p := models.Player{ID: "p-" + strings.ToLower(name), DisplayName: name, IsUCExempt: true}
	f.create(&p)
	return p
}

func (f *fixture) team(tournament models.Tournament, name string, players ...models.Player) models.Team {
	team := models.Team{ID: tournament.ID + "-" + strings.ToLower(name), TournamentID: tournament.ID, Name: name}
	f.create(&team)
	for i, p := range players {
		f.create(&models.TeamPlayer{ID: uuid.NewString(), TeamID: team.ID, PlayerID: p.ID, SortOrder: i})
	}
	return team
}

func (f *fixture) match(tournament models.Tournament, number int) models.Match {
	m := models.Match{ID: uuid.NewString(), TournamentID: tournament.ID, MatchNumber: number}
	f.create(&m)
	return m
}

// result records a team's finish in a match; each player listed played it.
func (f *fixture) result(m models.Match, team models.Team, position int, players ...models.Player) {
	f.create(&models.TeamStat{ID: uuid.NewString(), MatchID: m.ID, TournamentID: m.TournamentID, TeamID: team.ID, Position: position})
	for _, p := range players {
		f.create(&models.TeamPlayerStat{ID: uuid.NewString(), MatchID: m.ID, TournamentID: m.TournamentID, TeamID: team.ID, PlayerID: p.ID, Kills: 1})
	}
}

// declared marks a past tournament settled, now, with team at position 1.
func (f *fixture) declared(tournament models.Tournament, team models.Team) {
	f.created = f.created.Add(time.Hour)
	f.create(&models.TournamentWinner{ID: uuid.NewString(), TournamentID: tournament.ID, TeamID: team.ID, Position: 1, Amount: 100})
	require.NoError(f.t, f.db.Model(&models.Tournament{}).Where("id = ?", tournament.ID).Updates(map[string]interface{}{
		"is_winner_declared": true,
		"winner_declared_at": f.created,
	}).Error)
}

func (f *fixture) ledger(p models.Player, typ models.TransactionType, amount int64, description string) {
	f.create(&models.Transaction{ID: uuid.NewString(), PlayerID: p.ID, Type: typ, Amount: amount, Description: description})
}

func (f *fixture) service() *SettlementService {
	policy := settlement.DefaultPolicy()
	svc := NewSettlementService(f.db, policy, NewTaxRedistributor(f.db, policy, nil), nil, nil)
	svc.now = func() time.Time { return time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC) }
	return svc
}

func (f *fixture) count(model interface{}, query string, args ...interface{}) int64 {
	f.t.Helper()
	var n int64
	q := f.db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	require.NoError(f.t, q.Count(&n).Error)
	return n
}

func (f *fixture) reload(id string) models.Tournament {
	f.t.Helper()
	var t models.Tournament
	require.NoError(f.t, f.db.First(&t, "id = ?", id).Error)
	return t
}

var (
	adminActor  = Actor{ID: "admin-1", Roles: []string{RoleAdmin}}
	playerActor = Actor{ID: "player-1", Roles: []string{"PLAYER"}}
	ctx         = context.Background()
)
