package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/spf13/cobra"

	"github.com/George-Ogden/pypianoroll/archive"
	"github.com/George-Ogden/pypianoroll/constants"
	"github.com/George-Ogden/pypianoroll/model"
	"github.com/George-Ogden/pypianoroll/util"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "serves",
	Long:  `Serves an HTTP API over a directory of archives.`,
	Run: func(cmd *cobra.Command, args []string) {
		serve()
	},
}

func summarize(name string, m *model.Multitrack) model.ArchiveSummary {
	summary := model.ArchiveSummary{
		Name:       name,
		Resolution: m.Resolution,
		Steps:      len(m.Tempo),
		Downbeats:  m.CountDownbeat(),
		Tracks:     make([]model.TrackSummary, 0, len(m.Tracks)),
	}
	for _, track := range m.Tracks {
		summary.Tracks = append(summary.Tracks, model.TrackSummary{
			Name:         track.Name,
			Program:      track.Program,
			IsDrum:       track.IsDrum,
			DType:        track.DType.String(),
			Steps:        track.Pianoroll.Rows,
			ActiveLength: track.ActiveLength(),
			Notes:        util.CountNonzero(track.Pianoroll.Data),
		})
	}
	return summary
}

func handleList(w http.ResponseWriter, r *http.Request) {
	entries, err := os.ReadDir(constants.GetArchiveDir())
	if err != nil {
		http.Error(w, "Could not read archive dir", 500)
		return
	}
	names := make([]string, 0)
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), constants.ArchiveExt) {
			names = append(names, entry.Name())
		}
	}
	json.NewEncoder(w).Encode(names)
}

func handleArchive(w http.ResponseWriter, r *http.Request) {
	// Base strips any path components a client smuggles in
	name := filepath.Base(mux.Vars(r)["name"])
	path := filepath.Join(constants.GetArchiveDir(), name)

	m, err := archive.Load(path)
	if err != nil {
		w.WriteHeader(422)
		json.NewEncoder(w).Encode(model.ErrorResponse{Error: err.Error()})
		return
	}
	json.NewEncoder(w).Encode(summarize(name, m))
}

func handleValidate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Could not read request body", 400)
		return
	}

	staging := filepath.Join(os.TempDir(), uuid.New().String()+constants.ArchiveExt)
	if err := os.WriteFile(staging, body, 0644); err != nil {
		http.Error(w, "Could not stage uploaded archive", 500)
		return
	}
	defer os.Remove(staging)

	res := model.ValidateResponse{Valid: true}
	if _, err := archive.Load(staging); err != nil {
		res = model.ValidateResponse{Valid: false, Detail: err.Error()}
	}
	json.NewEncoder(w).Encode(res)
}

func serve() {
	fmt.Printf("Serving archives from %v\n", constants.GetArchiveDir())

	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/archives", handleList).Methods("GET")
	router.HandleFunc("/archives/{name}", handleArchive).Methods("GET")
	router.HandleFunc("/validate", handleValidate).Methods("POST")

	handler := cors.Default().Handler(router)
	log.Fatal(http.ListenAndServe(":8080", handler))
}
