package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/common"
	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/domain/model"
	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/domain/repository"
)

// ProgressService aggregates completion statistics across the roster. All
// rates are percentages rounded to two decimals; an empty cohort or an empty
// task list reports zero rather than dividing by zero.
type ProgressService struct {
	studentRepo    repository.StudentRepository
	taskRepo       repository.TaskRepository
	submissionRepo repository.SubmissionRepository
	cache          *redis.Client
	cacheTTL       time.Duration
}

func NewProgressService(
	studentRepo repository.StudentRepository,
	taskRepo repository.TaskRepository,
	submissionRepo repository.SubmissionRepository,
	cache *redis.Client,
	cacheTTL time.Duration,
) *ProgressService {
	return &ProgressService{
		studentRepo:    studentRepo,
		taskRepo:       taskRepo,
		submissionRepo: submissionRepo,
		cache:          cache,
		cacheTTL:       cacheTTL,
	}
}

type GradeStats struct {
	Grade          string  `json:"grade"`
	Students       int     `json:"students"`
	Tasks          int     `json:"tasks"`
	Submissions    int     `json:"submissions"`
	CompletionRate float64 `json:"completion_rate"`
}

type SectionStats struct {
	Section        string  `json:"section"`
	Students       int     `json:"students"`
	Tasks          int     `json:"tasks"`
	Submissions    int     `json:"submissions"`
	CompletionRate float64 `json:"completion_rate"`
}

type CampusStats struct {
	Campus         string       `json:"campus"`
	Students       int          `json:"students"`
	Tasks          int          `json:"tasks"`
	Submissions    int          `json:"submissions"`
	CompletionRate float64      `json:"completion_rate"`
	Grades         []GradeStats `json:"grades"`
}

type OverviewStats struct {
	TotalStudents    int           `json:"total_students"`
	TotalTasks       int           `json:"total_tasks"`
	TotalSubmissions int           `json:"total_submissions"`
	CompletionRate   float64        `json:"completion_rate"`
	Campuses         []CampusStats  `json:"campuses"`
	Grades           []GradeStats   `json:"grades"`
	Sections         []SectionStats `json:"sections"`
	GeneratedAt      time.Time      `json:"generated_at"`
}

type StudentProgress struct {
	StudentID      string  `json:"student_id"`
	Name           string  `json:"name"`
	AssignedTasks  int     `json:"assigned_tasks"`
	CompletedTasks int     `json:"completed_tasks"`
	CompletionRate float64 `json:"completion_rate"`
}

type TaskProgress struct {
	Task           *model.Task     `json:"task"`
	Completed      []model.Student `json:"completed"`
	Pending        []model.Student `json:"pending"`
	CompletionRate float64         `json:"completion_rate"`
}

// round2 keeps rates stable for display and comparison.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// completionRate is submissions over students*tasks as a percentage. Zero
// denominator means nothing was assignable yet, reported as zero progress.
func completionRate(submissions, students, tasks int) float64 {
	denom := students * tasks
	if denom == 0 {
		return 0
	}
	return round2(float64(submissions) / float64(denom) * 100)
}

// Overview builds the campus, grade and section breakdowns the scope is
// entitled to see.
// Admin snapshots are served from the cache when one is fresh.
func (s *ProgressService) Overview(ctx context.Context, scope model.Scope) (*OverviewStats, error) {
	if scope.Role == model.RoleStudent {
		return nil, common.ErrForbidden
	}

	cacheKey := s.overviewCacheKey(scope)
	if cached := s.cachedOverview(ctx, cacheKey); cached != nil {
		return cached, nil
	}

	students, err := s.scopedStudents(ctx, scope)
	if err != nil {
		return nil, err
	}
	tasks, err := s.taskRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	submissions, err := s.submissionRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	studentsByID := make(map[string]*model.Student, len(students))
	for i := range students {
		studentsByID[students[i].StudentID] = &students[i]
	}

	// submission counts per campus, grade and section for the visible roster
	subsByCampus := make(map[string]int)
	subsByCampusGrade := make(map[string]int)
	subsByGrade := make(map[string]int)
	subsBySection := make(map[string]int)
	visibleSubs := 0
	for _, sub := range submissions {
		st, ok := studentsByID[sub.StudentID]
		if !ok {
			continue
		}
		visibleSubs++
		subsByCampus[st.Campus]++
		subsByCampusGrade[st.Campus+"/"+st.Grade]++
		subsByGrade[st.Grade]++
		subsBySection[st.Section]++
	}

	stats := &OverviewStats{
		TotalStudents:    len(students),
		TotalTasks:       len(tasks),
		TotalSubmissions: visibleSubs,
		CompletionRate:   completionRate(visibleSubs, len(students), len(tasks)),
		Campuses:         []CampusStats{},
		Grades:           []GradeStats{},
		Sections:         []SectionStats{},
		GeneratedAt:      time.Now().UTC(),
	}

	studentsByGradeAll := make(map[string]int)
	studentsBySection := make(map[string]int)
	for i := range students {
		studentsByGradeAll[students[i].Grade]++
		studentsBySection[students[i].Section]++
	}
	gradeTasksAll := make(map[string]int)
	for _, t := range tasks {
		for _, g := range t.GradeTarget {
			gradeTasksAll[g]++
		}
	}

	// grade rollup across campuses, every grade reported even when empty
	for _, grade := range model.DefaultGrades() {
		gradeStudents := studentsByGradeAll[grade.Name]
		gradeTasks := gradeTasksAll[grade.Name]
		stats.Grades = append(stats.Grades, GradeStats{
			Grade:          grade.Name,
			Students:       gradeStudents,
			Tasks:          gradeTasks,
			Submissions:    subsByGrade[grade.Name],
			CompletionRate: completionRate(subsByGrade[grade.Name], gradeStudents, gradeTasks),
		})
	}

	// section rollup, sections without students are left out
	for _, section := range model.Sections {
		sectionStudents := studentsBySection[section]
		if sectionStudents == 0 {
			continue
		}
		stats.Sections = append(stats.Sections, SectionStats{
			Section:        section,
			Students:       sectionStudents,
			Tasks:          len(tasks),
			Submissions:    subsBySection[section],
			CompletionRate: completionRate(subsBySection[section], sectionStudents, len(tasks)),
		})
	}

	for _, campus := range model.DefaultCampuses() {
		if !scope.AllowsCampus(campus.Name) {
			continue
		}
		campusStudents := 0
		studentsByGrade := make(map[string]int)
		for i := range students {
			if students[i].Campus == campus.Name {
				campusStudents++
				studentsByGrade[students[i].Grade]++
			}
		}
		campusTasks := 0
		tasksByGrade := make(map[string]int)
		for _, t := range tasks {
			if !t.TargetsCampus(campus.Name) {
				continue
			}
			campusTasks++
			for _, g := range t.GradeTarget {
				tasksByGrade[g]++
			}
		}

		cs := CampusStats{
			Campus:         campus.Name,
			Students:       campusStudents,
			Tasks:          campusTasks,
			Submissions:    subsByCampus[campus.Name],
			CompletionRate: completionRate(subsByCampus[campus.Name], campusStudents, campusTasks),
			Grades:         []GradeStats{},
		}
		for _, grade := range model.DefaultGrades() {
			gradeStudents := studentsByGrade[grade.Name]
			gradeTasks := tasksByGrade[grade.Name]
			gradeSubs := subsByCampusGrade[campus.Name+"/"+grade.Name]
			if gradeStudents == 0 && gradeSubs == 0 {
				continue
			}
			cs.Grades = append(cs.Grades, GradeStats{
				Grade:          grade.Name,
				Students:       gradeStudents,
				Tasks:          gradeTasks,
				Submissions:    gradeSubs,
				CompletionRate: completionRate(gradeSubs, gradeStudents, gradeTasks),
			})
		}
		stats.Campuses = append(stats.Campuses, cs)
	}

	s.storeOverview(ctx, cacheKey, stats)
	return stats, nil
}

// ForStudent reports a single student's own completion against the tasks
// targeted at their campus and grade.
func (s *ProgressService) ForStudent(ctx context.Context, scope model.Scope, studentID string) (*StudentProgress, error) {
	student, err := s.studentRepo.FindByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if !scope.AllowsStudent(student) {
		return nil, common.ErrForbidden
	}

	tasks, err := s.taskRepo.ListForStudent(ctx, student.Campus, student.Grade)
	if err != nil {
		return nil, err
	}
	submissions, err := s.submissionRepo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	assigned := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		assigned[t.ID] = true
	}
	completed := 0
	for _, sub := range submissions {
		if assigned[sub.TaskID] {
			completed++
		}
	}

	return &StudentProgress{
		StudentID:      student.StudentID,
		Name:           student.Name,
		AssignedTasks:  len(tasks),
		CompletedTasks: completed,
		CompletionRate: completionRate(completed, 1, len(tasks)),
	}, nil
}

// ForTask splits the task's targeted cohort into students who have submitted
// and students who have not.
func (s *ProgressService) ForTask(ctx context.Context, scope model.Scope, taskID string) (*TaskProgress, error) {
	if scope.Role == model.RoleStudent {
		return nil, common.ErrForbidden
	}
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !scope.AllowsTask(task) {
		return nil, common.ErrNotFound
	}

	submissions, err := s.submissionRepo.ListByTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	submitted := make(map[string]bool, len(submissions))
	for _, sub := range submissions {
		submitted[sub.StudentID] = true
	}

	progress := &TaskProgress{
		Task:      task,
		Completed: []model.Student{},
		Pending:   []model.Student{},
	}
	for _, campus := range task.CampusTarget {
		if !scope.AllowsCampus(campus) {
			continue
		}
		for _, grade := range task.GradeTarget {
			cohort, err := s.studentRepo.ListByCampusGrade(ctx, campus, grade)
			if err != nil {
				return nil, err
			}
			for i := range cohort {
				cohort[i].HashedPassword = ""
				if submitted[cohort[i].StudentID] {
					progress.Completed = append(progress.Completed, cohort[i])
				} else {
					progress.Pending = append(progress.Pending, cohort[i])
				}
			}
		}
	}
	total := len(progress.Completed) + len(progress.Pending)
	progress.CompletionRate = completionRate(len(progress.Completed), total, 1)
	return progress, nil
}

func (s *ProgressService) scopedStudents(ctx context.Context, scope model.Scope) ([]model.Student, error) {
	if scope.Role == model.RoleTeacher {
		return s.studentRepo.ListByCampus(ctx, *scope.Campus)
	}
	return s.studentRepo.List(ctx)
}

func (s *ProgressService) overviewCacheKey(scope model.Scope) string {
	if scope.Campus != nil {
		return fmt.Sprintf("progress:overview:%s", *scope.Campus)
	}
	return "progress:overview:all"
}

func (s *ProgressService) cachedOverview(ctx context.Context, key string) *OverviewStats {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		return nil
	}
	stats := &OverviewStats{}
	if err := json.Unmarshal(raw, stats); err != nil {
		return nil
	}
	return stats
}

func (s *ProgressService) storeOverview(ctx context.Context, key string, stats *OverviewStats) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.cacheTTL).Err(); err != nil {
		log.Printf("WARN: failed to cache progress snapshot %s: %v", key, err)
	}
}
