package main

import (
	"context"
	"errors"
	"flag"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/mauv0809/pingpong-ladder/internal/approval"
	"github.com/mauv0809/pingpong-ladder/internal/auth"
	"github.com/mauv0809/pingpong-ladder/internal/cache"
	"github.com/mauv0809/pingpong-ladder/internal/club"
	"github.com/mauv0809/pingpong-ladder/internal/commentary"
	"github.com/mauv0809/pingpong-ladder/internal/database"
	"github.com/mauv0809/pingpong-ladder/internal/ladder"
	"github.com/mauv0809/pingpong-ladder/internal/metrics"
	"github.com/mauv0809/pingpong-ladder/internal/pubsub"
	"github.com/mauv0809/pingpong-ladder/internal/scoring"
)

const seedPin = "0000"

var seedNames = []string{"Seeder Alice", "Seeder Bob", "Seeder Carol", "Seeder Dave", "Seeder Erin", "Seeder Frank"}

// Simplified config loading for the script
func loadConfig() (dbName, primaryURL, authToken string) {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}
	dbName, ok := os.LookupEnv("DB_NAME")
	if !ok {
		log.Fatalf("Error: Required environment variable %s is not set.", "DB_NAME")
	}
	return dbName, os.Getenv("TURSO_PRIMARY_URL"), os.Getenv("TURSO_AUTH_TOKEN")
}

func main() {
	numMatches := flag.Int("matches", 50, "number of matches to play")
	seed := flag.Int64("seed", 1, "random seed")
	flag.Parse()

	log.Info("Starting database seeder...")
	dbName, primaryURL, authToken := loadConfig()
	db, teardown, err := database.InitDB(dbName, primaryURL, authToken, "")
	if err != nil {
		log.Fatalf("Failed to open database: %s", err)
	}
	defer teardown()

	ctx := context.Background()
	store := club.New(db, cache.NewStore(time.Minute))
	recorder := metrics.NewMock()
	authSvc := auth.NewService(store, auth.NewTokens("seeder", time.Hour), recorder)
	workflow := approval.New(store, pubsub.NewLocal(), recorder)

	existing, err := store.ReadPlayers(ctx)
	if err != nil {
		log.Fatalf("Failed to read players: %s", err)
	}
	players := make([]ladder.Player, 0, len(seedNames))
	for _, name := range seedNames {
		session, err := authSvc.Register(ctx, name, seedPin)
		if errors.Is(err, ladder.ErrNameTaken) {
			if p, ok := findByName(existing, name); ok {
				players = append(players, p)
				continue
			}
		}
		if err != nil {
			log.Fatalf("Failed to register seed player %s: %s", name, err)
		}
		players = append(players, session.Player)
	}
	log.Info("Registered seed players", "count", len(players), "pin", seedPin)

	rng := rand.New(rand.NewSource(*seed))
	names := make(map[string]string, len(players))
	for _, p := range players {
		names[p.ID] = p.Name
	}
	gen := commentary.Static{Text: "Seeded match."}

	for i := 0; i < *numMatches; i++ {
		draft, err := playRandomMatch(ctx, rng, players, names, gen)
		if err != nil {
			log.Fatalf("Failed to play match %d: %s", i, err)
		}
		match, err := workflow.Submit(ctx, draft)
		if err != nil {
			log.Fatalf("Failed to submit match %d: %s", i, err)
		}
		// Leave every tenth match pending for the approval queue.
		if i%10 == 9 {
			continue
		}
		if _, err := workflow.Approve(ctx, match.ID); err != nil {
			log.Fatalf("Failed to approve match %s: %s", match.ID, err)
		}
	}

	log.Info("Seeding complete", "matches", *numMatches, "approved", recorder.MatchesApprovedCount())
}

// playRandomMatch scores a full match rally by rally between randomly drawn
// players.
func playRandomMatch(ctx context.Context, rng *rand.Rand, players []ladder.Player, names map[string]string, gen commentary.Generator) (ladder.MatchDraft, error) {
	m := scoring.New()
	matchType := ladder.Singles
	if len(players) >= 4 && rng.Intn(3) == 0 {
		matchType = ladder.Doubles
	}
	size := matchType.RosterSize()
	perm := rng.Perm(len(players))
	teamA := make([]string, 0, size)
	teamB := make([]string, 0, size)
	for i := 0; i < size; i++ {
		teamA = append(teamA, players[perm[i]].ID)
		teamB = append(teamB, players[perm[size+i]].ID)
	}
	bestOf := []ladder.BestOf{1, 3, 3, 5}[rng.Intn(4)]

	if err := m.SetType(matchType); err != nil {
		return ladder.MatchDraft{}, err
	}
	if err := m.SetBestOf(bestOf); err != nil {
		return ladder.MatchDraft{}, err
	}
	if err := m.SetTeams(teamA, teamB); err != nil {
		return ladder.MatchDraft{}, err
	}
	if err := m.Start(); err != nil {
		return ladder.MatchDraft{}, err
	}
	for m.State() == scoring.StatePlaying {
		team := ladder.TeamA
		if rng.Intn(2) == 0 {
			team = ladder.TeamB
		}
		if err := m.ScorePoint(team); err != nil {
			return ladder.MatchDraft{}, err
		}
	}
	return m.Finish(ctx, gen, names, teamA[0])
}

func findByName(players []ladder.Player, name string) (ladder.Player, bool) {
	for _, p := range players {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return ladder.Player{}, false
}
