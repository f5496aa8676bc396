package app

import (
	"go.uber.org/fx"

	"github.com/TongyunK/orderFood-system/internal/cache"
	"github.com/TongyunK/orderFood-system/internal/config"
	"github.com/TongyunK/orderFood-system/internal/database"
	"github.com/TongyunK/orderFood-system/internal/logger"
	"github.com/TongyunK/orderFood-system/internal/messaging"
	"github.com/TongyunK/orderFood-system/internal/observability"
	"github.com/TongyunK/orderFood-system/internal/printer"
	"github.com/TongyunK/orderFood-system/internal/printing"
	repositorycatalog "github.com/TongyunK/orderFood-system/internal/repository/catalog"
	repositoryorder "github.com/TongyunK/orderFood-system/internal/repository/order"
	repositorysettings "github.com/TongyunK/orderFood-system/internal/repository/settings"
	"github.com/TongyunK/orderFood-system/internal/sequence"
	httpserver "github.com/TongyunK/orderFood-system/internal/server/http"
	servicecatalog "github.com/TongyunK/orderFood-system/internal/service/catalog"
	serviceorder "github.com/TongyunK/orderFood-system/internal/service/order"
	transporthttp "github.com/TongyunK/orderFood-system/internal/transport/http"
	"github.com/TongyunK/orderFood-system/internal/worker"
	workerkitchen "github.com/TongyunK/orderFood-system/internal/worker/kitchen"
)

// Core provides the foundational modules shared across executables. The
// printer and its spooler live here so receipts print no matter which
// surface created the order.
var Core = fx.Options(
	config.Module,
	logger.Module,
	observability.Module,
	database.Module,
	cache.Module,
	messaging.Module,
	repositorysettings.Module,
	repositorycatalog.Module,
	repositoryorder.Module,
	sequence.Module,
	printer.Module,
	printing.Module,
	servicecatalog.Module,
	serviceorder.Module,
)

// HTTP wires the kiosk API on top of the core modules.
var HTTP = fx.Options(
	Core,
	httpserver.Module,
	transporthttp.Module,
)

// Worker exposes the kitchen-feed consumers.
var Worker = fx.Options(
	Core,
	worker.Module,
	workerkitchen.Module,
)

// Module is the default application wiring (HTTP only).
var Module = HTTP
