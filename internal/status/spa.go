package status

import (
	"embed"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/jroosing/fqdnfilter/internal/status/docs"
)

//go:embed static/dist/*
var embeddedUI embed.FS

func getEmbedFS() static.ServeFileSystem {
	fs, err := static.EmbedFolder(embeddedUI, "static/dist")
	if err != nil {
		panic("status: failed to load embedded UI: " + err.Error())
	}
	return fs
}

// mountDiagnosticsUI serves the embedded placeholder page at "/" and the
// generated Swagger UI at "/swagger/*any", alongside the JSON endpoints
// registered in New. Neither surface can mutate filter state.
func mountDiagnosticsUI(r *gin.Engine, logger *slog.Logger) {
	distFS := getEmbedFS()
	r.Use(static.Serve("/", distFS))

	r.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.RequestURI, "/swagger") {
			return
		}
		index, err := distFS.Open("index.html")
		if err != nil {
			logger.Error("status: failed to open index.html", "error", err)
			return
		}
		defer index.Close()
		stat, err := index.Stat()
		if err != nil {
			return
		}
		http.ServeContent(c.Writer, c.Request, "index.html", stat.ModTime(), index)
	})

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
