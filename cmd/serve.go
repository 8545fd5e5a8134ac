package cmd

import (
	"net/http"

	"github.com/mager/chordlegend/analysis"
	"github.com/mager/chordlegend/auth"
	"github.com/mager/chordlegend/catalog"
	"github.com/mager/chordlegend/config"
	"github.com/mager/chordlegend/database"
	"github.com/mager/chordlegend/detector"
	"github.com/mager/chordlegend/firestore"
	analyzeHandler "github.com/mager/chordlegend/handler/analyze"
	favoritesHandler "github.com/mager/chordlegend/handler/favorites"
	"github.com/mager/chordlegend/handler/health"
	"github.com/mager/chordlegend/handler/playback"
	"github.com/mager/chordlegend/handler/swagger"
	timelineHandler "github.com/mager/chordlegend/handler/timeline"
	"github.com/mager/chordlegend/logger"
	"github.com/mager/chordlegend/musicbrainz"
	"github.com/mager/chordlegend/server"
	"github.com/mager/chordlegend/spotify"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Run: func(cmd *cobra.Command, args []string) {
		fx.New(appOptions()...).Run()
	},
}

//	@title			chordlegend
//	@version		1.0
//	@description	Chord timelines for YouTube videos

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

// @host		localhost:8080
// @BasePath	/
// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
func appOptions() []fx.Option {
	return []fx.Option{
		fx.Provide(
			server.Options,
			config.Options,
			logger.Options,
			catalog.Options,
			detector.Options,
			spotify.Options,
			musicbrainz.Options,
			database.Options,
			database.ProvideFavorites,
			firestore.Options,
			firestore.ProvideAnalysisCache,
			analysis.Options,
			auth.Options,

			server.AsRoute(health.NewHealthHandler),
			server.AsRoute(analyzeHandler.NewAnalyzeHandler),
			server.AsRoute(analyzeHandler.NewGetAnalysisHandler),
			server.AsRoute(analyzeHandler.NewSongsHandler),
			server.AsRoute(timelineHandler.NewGenerateHandler),
			server.AsRoute(timelineHandler.NewLookupHandler),
			server.AsRoute(timelineHandler.NewAdjustHandler),
			server.AsRoute(timelineHandler.NewMIDIHandler),
			server.AsRoute(favoritesHandler.NewListFavoritesHandler),
			server.AsRoute(favoritesHandler.NewFavoriteHandler),
			server.AsRoute(playback.NewSyncHandler),
			server.AsRoute(swagger.NewDocHandler),
		),
		fx.WithLogger(func(log *zap.SugaredLogger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Desugar()}
		}),
		fx.Invoke(func(*http.Server) {}),
	}
}
