package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/timeblock-app/timeblock-backend/pkg/communication"
	"github.com/timeblock-app/timeblock-backend/pkg/environment"
	"github.com/timeblock-app/timeblock-backend/pkg/locking"
	"github.com/timeblock-app/timeblock-backend/pkg/logger"
	"github.com/timeblock-app/timeblock-backend/pkg/tasks"
	"github.com/timeblock-app/timeblock-backend/pkg/tasks/calendar"
	"github.com/timeblock-app/timeblock-backend/pkg/users"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcalendar "google.golang.org/api/calendar/v3"
)

func main() {
	var logging logger.Interface = logger.Logger{}
	fmt.Println("Server is starting up...")

	environment.Initialize()

	client, err := mongo.NewClient(options.Client().ApplyURI(environment.Global.DatabaseUrl))
	if err != nil {
		log.Fatal(err)
	}

	var ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err = client.Connect(ctx)
	if err != nil {
		log.Panic(err)
	}

	err = client.Ping(ctx, nil)
	if err != nil {
		log.Panic(err)
	}

	defer func() {
		err := client.Disconnect(ctx)
		if err != nil {
			logging.Fatal(err)
		}
	}()

	fmt.Println("Database connected")

	db := client.Database(environment.Global.Database)

	userCollection := db.Collection("Users")
	taskCollection := db.Collection("Tasks")
	eventCollection := db.Collection("Events")
	scheduleCollection := db.Collection("Schedules")
	bindingCollection := db.Collection("ScheduleBindings")

	var locker locking.LockerInterface
	var snapshotCache tasks.SnapshotCacheInterface

	if environment.Global.Redis != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     environment.Global.Redis,
			Password: environment.Global.RedisPassword,
		})

		err = redisClient.Ping(ctx).Err()
		if err != nil {
			log.Panic(err)
		}

		fmt.Println("Redis connected")

		locker = locking.NewLockerRedis(redisClient)
		snapshotCache = tasks.NewSnapshotCacheRedis(redisClient)
	} else {
		locker = locking.NewLockerMemory()

		memoryCache, err := tasks.NewSnapshotCacheMemory()
		if err != nil {
			log.Panic(err)
		}
		snapshotCache = memoryCache
	}

	responseManager := communication.ResponseManager{Logger: logging}

	userRepository := &users.UserRepository{DB: userCollection, Logger: logging}
	taskRepository := &tasks.MongoDBTaskRepository{DB: taskCollection, Logger: logging}
	eventRepository := &calendar.EventRepository{DB: eventCollection, Logger: logging}
	scheduleRepository := &tasks.ScheduleRepository{
		DB:         scheduleCollection,
		BindingsDB: bindingCollection,
		Logger:     logging,
	}

	scheduleResolver := tasks.NewScheduleResolver(userRepository, scheduleRepository)

	allocator := tasks.AllocatorConfig{
		BlockDuration: durationFromEnv(environment.Global.BlockDurationMinutes, time.Minute, tasks.DefaultBlockDuration),
		HorizonDays:   intFromEnv(environment.Global.HorizonDays, tasks.DefaultHorizonDays),
		SkipWeekends:  environment.Global.SkipWeekends == "true",
	}

	planningService := tasks.NewPlanningService(
		taskRepository, eventRepository, scheduleResolver,
		snapshotCache, logging, locker, allocator)

	if environment.Global.GoogleCalendarToken != "" {
		oauthConfig := &oauth2.Config{
			ClientID:     environment.Global.GoogleClientID,
			ClientSecret: environment.Global.GoogleClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{gcalendar.CalendarReadonlyScope},
		}

		busySource, err := calendar.NewGoogleBusySource(ctx, oauthConfig,
			environment.Global.GoogleCalendarToken, []string{"primary"})
		if err != nil {
			logging.Warning("could not initialize google calendar busy source", err)
		} else {
			planningService.AddBusySource(busySource)
		}
	}

	reconcilerManager := tasks.NewReconcilerManager(planningService, logging,
		durationFromEnv(environment.Global.DebounceMilliseconds, time.Millisecond, tasks.DefaultDebounceWindow),
		durationFromEnv(environment.Global.ThrottleSeconds, time.Second, tasks.DefaultThrottleInterval))
	defer reconcilerManager.StopAll()

	userHandler := users.Handler{
		UserRepository:  userRepository,
		Logger:          logging,
		ResponseManager: &responseManager,
	}

	taskHandler := tasks.Handler{
		TaskRepository:    taskRepository,
		Logger:            logging,
		ResponseManager:   &responseManager,
		ReconcilerManager: reconcilerManager,
	}

	planningHandler := tasks.PlanningHandler{
		Service:           planningService,
		ReconcilerManager: reconcilerManager,
		Logger:            logging,
		ResponseManager:   &responseManager,
	}

	r := mux.NewRouter()
	r.HandleFunc("/", func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusOK)

		_, err := fmt.Fprint(writer, "Welcome to the API! ✔")
		if err != nil {
			log.Printf("Error: %v\n", err)
		}
	})

	r.HandleFunc("/v1/user", userHandler.UserAdd).Methods(http.MethodPost)
	r.HandleFunc("/v1/user/{userID}", userHandler.UserGet).Methods(http.MethodGet)

	r.HandleFunc("/v1/{userID}/tasks", taskHandler.TaskAdd).Methods(http.MethodPost)
	r.HandleFunc("/v1/{userID}/tasks", taskHandler.GetAllTasks).Methods(http.MethodGet)
	r.HandleFunc("/v1/{userID}/tasks/{taskID}", taskHandler.TaskGet).Methods(http.MethodGet)
	r.HandleFunc("/v1/{userID}/tasks/{taskID}", taskHandler.TaskUpdate).Methods(http.MethodPut)
	r.HandleFunc("/v1/{userID}/tasks/{taskID}", taskHandler.TaskDelete).Methods(http.MethodDelete)

	r.HandleFunc("/v1/{userID}/events", planningHandler.GetAllEvents).Methods(http.MethodGet)
	r.HandleFunc("/v1/{userID}/events/{eventID}/completion", planningHandler.EventCompletion).Methods(http.MethodPost)

	r.HandleFunc("/v1/{userID}/schedule/run", planningHandler.ScheduleRun).Methods(http.MethodPost)
	r.HandleFunc("/v1/{userID}/schedule/report", planningHandler.ScheduleReport).Methods(http.MethodGet)

	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("Content-Type", "application/json")
			next.ServeHTTP(w, r)
		})
	})

	port := environment.Global.Port
	if port == "" {
		port = "80"
	}

	http.Handle("/", r)
	log.Panic(http.ListenAndServe(":"+port, r))
}

func durationFromEnv(value string, unit time.Duration, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}

	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return fallback
	}

	return time.Duration(parsed) * unit
}

func intFromEnv(value string, fallback int) int {
	if value == "" {
		return fallback
	}

	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return fallback
	}

	return parsed
}
