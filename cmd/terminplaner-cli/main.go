package main

import (
	"context"

	"terminplaner-backend/cmd/terminplaner-cli/commands"
	"terminplaner-backend/lib/serviceutil"
	"terminplaner-backend/lib/telemetry"
)

func main() {
	ctx := context.Background()

	err := telemetry.SetupFromEnv(ctx, "terminplaner-cli")
	if err != nil {
		serviceutil.Fatal("failed to setup telemetry", err)
	}
	telemetry.InitSlog(false)
	defer telemetry.Shutdown(context.Background())

	commands.ExecuteContext(ctx)
}
