package loom_test

import (
	"context"
	"fmt"
	"log"

	"github.com/loom-di/loom"
)

// Example types

type Logger struct {
	prefix string
}

func (l *Logger) Log(msg string) string {
	return l.prefix + msg
}

type Database struct {
	dsn string
}

type UserService struct {
	logger *Logger
	db     *Database
}

func (s *UserService) GetUser(id int) string {
	return s.logger.Log("user " + s.db.dsn)
}

// Example demonstrates basic service registration and resolution.
func Example() {
	container, err := loom.New(loom.ServiceMap{
		"logger": loom.Singleton.Of(func(loom.Deps) (any, error) {
			return &Logger{prefix: "[APP] "}, nil
		}),
		"db": loom.Singleton.Of(func(loom.Deps) (any, error) {
			return &Database{dsn: "42"}, nil
		}),
		"users": loom.Scoped.Of(func(deps loom.Deps) (any, error) {
			logger, err := loom.Get[*Logger](deps, "logger")
			if err != nil {
				return nil, err
			}
			db, err := loom.Get[*Database](deps, "db")
			if err != nil {
				return nil, err
			}
			return &UserService{logger: logger, db: db}, nil
		}),
	})
	if err != nil {
		log.Fatal(err)
	}
	defer container.Close(context.Background())

	users, err := loom.Resolve[*UserService](container, "users")
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(users.GetUser(1))
	// Output: [APP] user 42
}

// ExampleContainer_CreateScope demonstrates scoped isolation.
func ExampleContainer_CreateScope() {
	container, _ := loom.New(loom.ServiceMap{
		"session": loom.Scoped.Of(func(loom.Deps) (any, error) {
			return &Database{}, nil
		}),
	})
	defer container.Close(context.Background())

	scope := container.CreateScope()
	defer scope.Close(context.Background())

	a, _ := scope.Resolve("session")
	b, _ := scope.Resolve("session")
	c, _ := container.Resolve("session")

	fmt.Println(a == b, a == c)
	// Output: true false
}

// ExampleContainer_With demonstrates override containers for testing.
func ExampleContainer_With() {
	container, _ := loom.New(loom.ServiceMap{
		"logger": loom.Singleton.Of(func(loom.Deps) (any, error) {
			return &Logger{prefix: "[PROD] "}, nil
		}),
	})
	defer container.Close(context.Background())

	testing, _ := container.With(loom.ServiceMap{
		"logger": loom.Singleton.Of(func(loom.Deps) (any, error) {
			return &Logger{prefix: "[TEST] "}, nil
		}),
	})
	defer testing.Close(context.Background())

	prod, _ := loom.Resolve[*Logger](container, "logger")
	test, _ := loom.Resolve[*Logger](testing, "logger")

	fmt.Println(prod.Log("x"))
	fmt.Println(test.Log("x"))
	// Output:
	// [PROD] x
	// [TEST] x
}
