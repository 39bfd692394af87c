package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/texrace/texrace/internal/aws/storage"
	"github.com/texrace/texrace/internal/domains/entities"
	"github.com/texrace/texrace/pkg/logging"
	"github.com/texrace/texrace/pkg/utils"
	"go.uber.org/zap"
)

// Gateway is the persistence side of the orchestrator: account lookup at
// queue-join time and the two writes at match end.
type Gateway interface {
	GetUser(ctx context.Context, userId string) (entities.User, error)
	ApplyMatchOutcome(ctx context.Context, userId string, won bool, newRating int) error
	PutMatch(ctx context.Context, match entities.MatchRecord) error
}

// EquationProvider supplies the fixed challenge set assigned to a room at
// creation.
type EquationProvider interface {
	SampleEquations(ctx context.Context, count int) ([]entities.Equation, error)
}

type server struct {
	address  string
	upgrader websocket.Upgrader

	config   Config
	registry *registry
	queue    *queue
	rooms    map[string]*Room
	mu       sync.Mutex

	gateway   Gateway
	equations EquationProvider
}

func NewServer() *server {
	cfg := NewConfig()
	awsCfg, err := awsConfig.LoadDefaultConfig(
		context.TODO(),
		awsConfig.WithRegion(cfg.AwsRegion),
	)
	if err != nil {
		panic(err)
	}
	storageClient := storage.NewClient(
		dynamodb.NewFromConfig(awsCfg),
		storage.Config{
			UsersTableName:     aws.String(cfg.UsersTableName),
			MatchesTableName:   aws.String(cfg.MatchesTableName),
			EquationsTableName: aws.String(cfg.EquationsTableName),
		},
	)
	return newServer(cfg, storageClient, storageClient)
}

func newServer(cfg Config, gateway Gateway, equations EquationProvider) *server {
	return &server{
		address: "0.0.0.0:" + cfg.Port,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins
			},
		},
		config:    cfg,
		registry:  newRegistry(),
		queue:     newQueue(cfg.RatingWindow),
		rooms:     make(map[string]*Room),
		gateway:   gateway,
		equations: equations,
	}
}

// Start method    starts the game server
func (s *server) Start() error {
	router := mux.NewRouter()
	router.HandleFunc("/play", s.handlePlay)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	srv := &http.Server{
		Addr:        s.address,
		Handler:     router,
		IdleTimeout: s.config.IdleTimeout,
	}
	logging.Info("websocket server started", zap.String("port", s.config.Port))
	return srv.ListenAndServe()
}

func (s *server) handlePlay(w http.ResponseWriter, r *http.Request) {
	userId, err := s.auth(r)
	if err != nil {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(err.Error()))
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Error("failed to upgrade connection", zap.Error(err))
		return
	}
	defer conn.Close()

	connId := utils.GenerateUUID()
	logging.Info("player connected",
		zap.String("conn_id", connId),
		zap.String("user_id", userId),
	)

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			s.handleConnectionClose(connId)
			logging.Info("connection closed",
				zap.String("conn_id", connId),
				zap.Error(err),
			)
			break
		}

		var pl payload
		if err := json.Unmarshal(message, &pl); err != nil {
			conn.WriteJSON(event{Type: "error", Data: errorEvent{Message: "malformed payload"}})
			continue
		}
		s.handleMessage(connId, userId, conn, pl)
	}
}

func (s *server) removeRoom(roomId string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, roomId)
}
