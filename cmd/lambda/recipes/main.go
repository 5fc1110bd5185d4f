package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	awslambda "github.com/aws/aws-lambda-go/lambda"
	"github.com/sirupsen/logrus"

	"github.com/youlserf/recipehub/internal/config"
	"github.com/youlserf/recipehub/internal/handlers"
	"github.com/youlserf/recipehub/pkg/lambda"
)

var logger = logrus.New()

func init() {
	logger.SetFormatter(&logrus.JSONFormatter{})

	// Warm the container during the init phase; a failure here is retried on
	// the first invocation.
	if container, err := lambda.GetConnectionManager().GetContainer(); err != nil {
		logger.WithError(err).Error("Failed to initialize container")
	} else {
		logger = container.Logger
	}

	sc := config.GetServerlessConfig()
	logger.WithFields(logrus.Fields{
		"deployment_mode": config.GetDeploymentMode(),
		"function_name":   sc.FunctionName,
		"stage":           sc.Stage,
	}).Info("Lambda initialized")
}

func handle(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	container, err := lambda.GetConnectionManager().Acquire(ctx)
	if err != nil {
		return nil, err
	}

	return handlers.NewRecipeHandler(container.RecipeService, container.Logger).Route(ctx, req)
}

func main() {
	// Lambda sends SIGTERM before shutting the execution environment down
	go func() {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGTERM)
		<-sigs
		if err := lambda.GetConnectionManager().Cleanup(); err != nil {
			logger.WithError(err).Warn("Failed to close container on shutdown")
		}
		os.Exit(0)
	}()

	awslambda.Start(lambda.Adapt(handle, logger))
}
