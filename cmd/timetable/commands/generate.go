package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/rhyrak/go-timetable/internal/csvio"
	"github.com/rhyrak/go-timetable/internal/render"
	"github.com/rhyrak/go-timetable/internal/scheduler"
	"github.com/rhyrak/go-timetable/internal/store"
	"github.com/rhyrak/go-timetable/pkg/model"
)

var (
	genCourses string
	genRooms   string
	genSlots   string
	genBusy    string
	genOut     string
	genSeed    uint64
	genGroups  []string
	genPDF     bool
	genPrint   bool
	genPersist bool

	okStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00CC66"))
	failStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF5555"))
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate timetables from csv inputs",
	Long: `Generate builds First_Half and Second_Half timetables for each course
group and exports them as csv. Groups given with --group share room
usage and are scheduled in the order given.`,
	Example: `  timetable generate --courses data/courses.csv
  timetable generate --group CSE-3-A=data/cse3a.csv --group CSE-3-B=data/cse3b.csv --print`,
	RunE: runGenerate,
}

func init() {
	f := generateCmd.Flags()
	f.StringVar(&genCourses, "courses", "", "course csv of a single group")
	f.StringVar(&genRooms, "rooms", "", "room csv")
	f.StringVar(&genSlots, "slots", "", "time slot csv")
	f.StringVar(&genBusy, "busy", "", "faculty unavailability csv")
	f.StringVar(&genOut, "out", "", "export directory")
	f.Uint64Var(&genSeed, "seed", 0, "seed for tie breaks and picks")
	f.StringArrayVar(&genGroups, "group", nil, "course group as NAME=PATH, repeatable")
	f.BoolVar(&genPDF, "pdf", false, "also export a pdf per group")
	f.BoolVar(&genPrint, "print", false, "print the grids to stdout")
	f.BoolVar(&genPersist, "persist", false, "save runs to the database")
}

type groupInput struct {
	Name string
	Path string
}

// parseGroups reads NAME=PATH pairs. Without any, the course file becomes a
// single group named after it.
func parseGroups(raw []string, coursesFile string) ([]groupInput, error) {
	if len(raw) == 0 {
		name := strings.TrimSuffix(filepath.Base(coursesFile), filepath.Ext(coursesFile))
		return []groupInput{{Name: name, Path: coursesFile}}, nil
	}

	groups := make([]groupInput, 0, len(raw))
	for _, g := range raw {
		name, path, ok := strings.Cut(g, "=")
		name, path = strings.TrimSpace(name), strings.TrimSpace(path)
		if !ok || name == "" || path == "" {
			return nil, fmt.Errorf("group %q is not NAME=PATH", g)
		}
		groups = append(groups, groupInput{Name: name, Path: path})
	}
	return groups, nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	defer func() { _ = log.Sync() }()

	sc := appCfg.Scheduler
	flags := cmd.Flags()
	if flags.Changed("courses") {
		sc.CoursesFile = genCourses
	}
	if flags.Changed("rooms") {
		sc.RoomsFile = genRooms
	}
	if flags.Changed("slots") {
		sc.SlotsFile = genSlots
	}
	if flags.Changed("busy") {
		sc.BusyFile = genBusy
	}
	if flags.Changed("out") {
		sc.ExportDir = genOut
	}
	if flags.Changed("seed") {
		sc.Seed = genSeed
	}

	groups, err := parseGroups(genGroups, sc.CoursesFile)
	if err != nil {
		return err
	}

	fmt.Println("Loading...")
	slots, err := csvio.LoadSlots(sc.SlotsFile, sc.Delimiter, log)
	if err != nil {
		return err
	}
	rooms, err := csvio.LoadRooms(sc.RoomsFile, sc.Delimiter, log)
	if err != nil {
		return err
	}
	busy, err := csvio.LoadBusy(sc.BusyFile, sc.Delimiter, log)
	if err != nil {
		return err
	}
	if len(busy) != 0 {
		fmt.Println("Faculty with busy schedules are as below:")
		for _, b := range busy {
			fmt.Println(b.Faculty + " " + b.Day + " " + b.Slot)
		}
		fmt.Println()
	}

	start := time.Now()
	usage := scheduler.NewRoomUsage()
	results := make([]*scheduler.Result, 0, len(groups))
	for _, g := range groups {
		courses, err := csvio.LoadCourses(g.Path, sc.Delimiter, log)
		if err != nil {
			return fmt.Errorf("group %s: %w", g.Name, err)
		}
		sched, err := scheduler.New(&sc, slots, rooms, usage, log.With(zap.String("group", g.Name)))
		if err != nil {
			return err
		}
		sched.SetFacultyBusy(busy)

		res, err := sched.Run(g.Name, courses)
		if err != nil {
			return fmt.Errorf("group %s: %w", g.Name, err)
		}
		results = append(results, res)
	}
	elapsed := time.Since(start)

	var written []string
	for _, res := range results {
		paths, err := csvio.ExportResult(sc.ExportDir, res)
		if err != nil {
			return err
		}
		written = append(written, paths...)

		if genPDF {
			path, err := writePDF(sc.ExportDir, res)
			if err != nil {
				return err
			}
			written = append(written, path)
		}
		if genPrint {
			fmt.Println(render.Result(res))
		}
	}

	valid, report := scheduler.Validate(results...)
	summary, err := writeSummary(sc.ExportDir, sc.Seed, valid, results)
	if err != nil {
		return err
	}
	written = append(written, summary)

	if valid {
		fmt.Println(okStyle.Render("Passed all tests"))
	} else {
		fmt.Println(failStyle.Render("Invalid timetable:"))
	}
	fmt.Println(report)

	if genPersist {
		if err := persist(cmd.Context(), results); err != nil {
			return err
		}
	}

	fmt.Printf("Groups: %d\n", len(results))
	fmt.Printf("Seed: %d\n", sc.Seed)
	fmt.Printf("Timer: %f ms\n", float64(elapsed.Microseconds())/1000.0)
	for _, p := range written {
		fmt.Println("Exported output to: " + p)
	}
	return nil
}

func writePDF(dir string, res *scheduler.Result) (string, error) {
	data, err := render.PDF(res)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, csvio.SafeName(res.Group)+".pdf")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write pdf: %w", err)
	}
	return path, nil
}

type sheetSummary struct {
	Name             string            `yaml:"name"`
	Placements       int               `yaml:"placements"`
	Unscheduled      int               `yaml:"unscheduled"`
	UnscheduledHours float64           `yaml:"unscheduled_hours"`
	ElectiveRooms    map[string]string `yaml:"elective_rooms,omitempty"`
}

type groupSummary struct {
	Group  string         `yaml:"group"`
	Sheets []sheetSummary `yaml:"sheets"`
}

type runSummary struct {
	Seed   uint64         `yaml:"seed"`
	Valid  bool           `yaml:"valid"`
	Groups []groupSummary `yaml:"groups"`
}

func summarize(seed uint64, valid bool, results []*scheduler.Result) runSummary {
	out := runSummary{Seed: seed, Valid: valid}
	for _, res := range results {
		g := groupSummary{Group: res.Group}
		for _, sheet := range res.Sheets {
			s := sheetSummary{
				Name:             sheet.Name,
				Placements:       len(sheet.Placements),
				Unscheduled:      len(sheet.Unscheduled),
				UnscheduledHours: unscheduledHours(sheet.Unscheduled),
			}
			if len(sheet.ElectiveRooms) > 0 {
				s.ElectiveRooms = make(map[string]string, len(sheet.ElectiveRooms))
				for _, er := range sheet.ElectiveRooms {
					s.ElectiveRooms[er.Key] = er.Room
				}
			}
			g.Sheets = append(g.Sheets, s)
		}
		out.Groups = append(out.Groups, g)
	}
	return out
}

func writeSummary(dir string, seed uint64, valid bool, results []*scheduler.Result) (string, error) {
	data, err := yaml.Marshal(summarize(seed, valid, results))
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, "summary.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write summary: %w", err)
	}
	return path, nil
}

func persist(ctx context.Context, results []*scheduler.Result) error {
	db, err := store.NewPostgres(appCfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	repo := store.NewRunRepository(db)
	if err := repo.Migrate(ctx); err != nil {
		return err
	}
	for _, res := range results {
		run, err := repo.Save(ctx, res)
		if err != nil {
			return err
		}
		fmt.Printf("Saved %s as run %s\n", res.Group, run.ID)
	}
	return nil
}

// unscheduledHours is the total of every leftover record.
func unscheduledHours(items []model.Unscheduled) float64 {
	var h float64
	for _, u := range items {
		h += u.RemainingHours
	}
	return h
}
