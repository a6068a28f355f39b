package checklists

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"
	"gopkg.in/yaml.v3"

	"github.com/ternarybob/neuink/internal/interfaces"
	"github.com/ternarybob/neuink/internal/models"
)

// Service implements ChecklistService interface
type Service struct {
	checklists interfaces.ChecklistStorage
	papers     interfaces.PaperStorage
	events     interfaces.EventService
	logger     arbor.ILogger
}

// NewService creates a new checklist service
func NewService(
	storage interfaces.StorageManager,
	events interfaces.EventService,
	logger arbor.ILogger,
) interfaces.ChecklistService {
	return &Service{
		checklists: storage.ChecklistStorage(),
		papers:     storage.PaperStorage(),
		events:     events,
		logger:     logger,
	}
}

// GetTree returns the full checklist hierarchy with per-node paper counts.
// Nodes come back ordered by level, sort order, then name, so the composed
// tree preserves the configured ordering at both levels.
func (s *Service) GetTree(ctx context.Context) ([]*models.ChecklistTreeNode, error) {
	nodes, err := s.checklists.ListChecklists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load checklists: %w", err)
	}

	tree := make([]*models.ChecklistTreeNode, 0)
	byID := make(map[string]*models.ChecklistTreeNode)

	for _, node := range nodes {
		count, err := s.checklists.CountPapers(ctx, node.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count papers: %w", err)
		}

		treeNode := &models.ChecklistTreeNode{
			Checklist:  *node,
			PaperCount: count,
		}
		byID[node.ID] = treeNode

		if node.ParentID == "" {
			tree = append(tree, treeNode)
			continue
		}
		parent, ok := byID[node.ParentID]
		if !ok {
			// Level ordering guarantees parents come first, so a miss means
			// the parent row is gone
			s.logger.Warn().
				Str("checklist_id", node.ID).
				Str("parent_id", node.ParentID).
				Msg("Checklist node has no parent, skipping")
			continue
		}
		parent.Children = append(parent.Children, treeNode)
	}

	return tree, nil
}

// CreateChecklist creates a folder node. An empty parent creates a top-level
// node; naming a parent creates a child, limited to two levels.
func (s *Service) CreateChecklist(ctx context.Context, req *models.CreateChecklistRequest) (*models.Checklist, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", interfaces.ErrValidation, err)
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: checklist name is required", interfaces.ErrValidation)
	}
	if strings.Contains(name, "/") {
		return nil, fmt.Errorf("%w: checklist names cannot contain '/'", interfaces.ErrValidation)
	}

	node := &models.Checklist{
		ID:        fmt.Sprintf("chk_%s", uuid.New().String()),
		Name:      name,
		Level:     1,
		FullPath:  name,
		SortOrder: req.SortOrder,
	}

	if req.ParentID != "" {
		parent, err := s.checklists.GetChecklist(ctx, req.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.Level >= models.ChecklistMaxDepth {
			return nil, fmt.Errorf("%w: checklists are limited to %d levels", interfaces.ErrValidation, models.ChecklistMaxDepth)
		}
		node.Level = parent.Level + 1
		node.ParentID = parent.ID
		node.FullPath = parent.FullPath + "/" + name
	}

	// FullPath doubles as a lookup key, so it must stay unique
	if _, err := s.checklists.GetChecklistByPath(ctx, node.FullPath); err == nil {
		return nil, fmt.Errorf("%w: checklist %q already exists", interfaces.ErrValidation, node.FullPath)
	} else if !errors.Is(err, interfaces.ErrNotFound) {
		return nil, err
	}

	if err := s.checklists.SaveChecklist(ctx, node); err != nil {
		return nil, fmt.Errorf("failed to save checklist: %w", err)
	}

	s.publish(ctx, map[string]interface{}{"checklist_id": node.ID, "action": "created"})

	s.logger.Info().
		Str("checklist_id", node.ID).
		Str("path", node.FullPath).
		Msg("Checklist created")

	return node, nil
}

// UpdateChecklist renames or reorders a node. Renaming recomputes FullPath,
// and for a top-level node also rewrites the paths of its children.
func (s *Service) UpdateChecklist(ctx context.Context, id string, req *models.UpdateChecklistRequest) (*models.Checklist, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", interfaces.ErrValidation, err)
	}

	node, err := s.checklists.GetChecklist(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.SortOrder != nil {
		node.SortOrder = *req.SortOrder
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) != node.Name {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: checklist name is required", interfaces.ErrValidation)
		}
		if strings.Contains(name, "/") {
			return nil, fmt.Errorf("%w: checklist names cannot contain '/'", interfaces.ErrValidation)
		}

		newPath := name
		if node.ParentID != "" {
			parent, err := s.checklists.GetChecklist(ctx, node.ParentID)
			if err != nil {
				return nil, fmt.Errorf("failed to load parent: %w", err)
			}
			newPath = parent.FullPath + "/" + name
		}

		if existing, err := s.checklists.GetChecklistByPath(ctx, newPath); err == nil && existing.ID != node.ID {
			return nil, fmt.Errorf("%w: checklist %q already exists", interfaces.ErrValidation, newPath)
		} else if err != nil && !errors.Is(err, interfaces.ErrNotFound) {
			return nil, err
		}

		node.Name = name
		node.FullPath = newPath

		if node.Level == 1 {
			children, err := s.checklists.ListChildren(ctx, node.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to load children: %w", err)
			}
			for _, child := range children {
				child.FullPath = newPath + "/" + child.Name
				if err := s.checklists.SaveChecklist(ctx, child); err != nil {
					return nil, fmt.Errorf("failed to update child path: %w", err)
				}
			}
		}
	}

	if err := s.checklists.SaveChecklist(ctx, node); err != nil {
		return nil, fmt.Errorf("failed to save checklist: %w", err)
	}

	s.publish(ctx, map[string]interface{}{"checklist_id": node.ID, "action": "updated"})
	return node, nil
}

// DeleteChecklist removes a node, its children and every membership row
// under them. Paper documents keep their checklist notes; those references
// simply dangle.
func (s *Service) DeleteChecklist(ctx context.Context, id string) error {
	node, err := s.checklists.GetChecklist(ctx, id)
	if err != nil {
		return err
	}

	if node.Level == 1 {
		children, err := s.checklists.ListChildren(ctx, node.ID)
		if err != nil {
			return fmt.Errorf("failed to load children: %w", err)
		}
		for _, child := range children {
			if err := s.checklists.DeleteChecklist(ctx, child.ID); err != nil {
				return fmt.Errorf("failed to delete child checklist: %w", err)
			}
		}
	}

	if err := s.checklists.DeleteChecklist(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, map[string]interface{}{"checklist_id": id, "action": "deleted"})

	s.logger.Info().
		Str("checklist_id", id).
		Str("path", node.FullPath).
		Msg("Checklist deleted")
	return nil
}

// AddPaper associates a paper with a checklist node. Adding twice is a no-op.
func (s *Service) AddPaper(ctx context.Context, checklistID, paperID string) error {
	if _, err := s.checklists.GetChecklist(ctx, checklistID); err != nil {
		return err
	}
	if _, err := s.papers.GetPaper(ctx, paperID); err != nil {
		return err
	}

	if err := s.checklists.AddPaper(ctx, checklistID, paperID); err != nil {
		return err
	}

	s.publish(ctx, map[string]interface{}{"checklist_id": checklistID, "paper_id": paperID, "action": "paper_added"})
	return nil
}

// RemovePaper drops the association. Removing a paper that is not a member
// is a no-op.
func (s *Service) RemovePaper(ctx context.Context, checklistID, paperID string) error {
	if _, err := s.checklists.GetChecklist(ctx, checklistID); err != nil {
		return err
	}

	if err := s.checklists.RemovePaper(ctx, checklistID, paperID); err != nil {
		return err
	}

	s.publish(ctx, map[string]interface{}{"checklist_id": checklistID, "paper_id": paperID, "action": "paper_removed"})
	return nil
}

// GetPaperChecklists returns the nodes a paper belongs to, in tree order
func (s *Service) GetPaperChecklists(ctx context.Context, paperID string) ([]*models.Checklist, error) {
	ids, err := s.checklists.ListChecklistIDs(ctx, paperID)
	if err != nil {
		return nil, err
	}

	nodes := make([]*models.Checklist, 0, len(ids))
	for _, id := range ids {
		node, err := s.checklists.GetChecklist(ctx, id)
		if err != nil {
			s.logger.Warn().Str("checklist_id", id).Msg("Membership row points at a missing checklist")
			continue
		}
		nodes = append(nodes, node)
	}

	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].Level != nodes[j].Level {
			return nodes[i].Level < nodes[j].Level
		}
		if nodes[i].SortOrder != nodes[j].SortOrder {
			return nodes[i].SortOrder < nodes[j].SortOrder
		}
		return nodes[i].Name < nodes[j].Name
	})

	return nodes, nil
}

// seedFile is the YAML shape of the initial checklist tree
type seedFile struct {
	Checklists []seedNode `yaml:"checklists"`
}

type seedNode struct {
	Name     string     `yaml:"name"`
	Children []seedNode `yaml:"children,omitempty"`
}

// Seed loads the initial checklist tree from a YAML file. It runs only when
// no checklists exist yet; a missing file is not an error.
func (s *Service) Seed(ctx context.Context, path string) error {
	count, err := s.checklists.CountChecklists(ctx)
	if err != nil {
		return fmt.Errorf("failed to count checklists: %w", err)
	}
	if count > 0 {
		s.logger.Debug().Int("existing", count).Msg("Checklists already present, skipping seed")
		return nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		s.logger.Debug().Str("path", path).Msg("No checklist seed file")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read seed file: %w", err)
	}

	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return fmt.Errorf("failed to parse seed file: %w", err)
	}

	created := 0
	for i, top := range seed.Checklists {
		parent, err := s.CreateChecklist(ctx, &models.CreateChecklistRequest{
			Name:      top.Name,
			SortOrder: i,
		})
		if err != nil {
			return fmt.Errorf("failed to seed checklist %q: %w", top.Name, err)
		}
		created++

		for j, child := range top.Children {
			if _, err := s.CreateChecklist(ctx, &models.CreateChecklistRequest{
				Name:      child.Name,
				ParentID:  parent.ID,
				SortOrder: j,
			}); err != nil {
				return fmt.Errorf("failed to seed checklist %q: %w", child.Name, err)
			}
			created++
		}
	}

	s.logger.Info().
		Int("nodes", created).
		Str("path", path).
		Msg("Checklist tree seeded")
	return nil
}

func (s *Service) publish(ctx context.Context, payload interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, interfaces.Event{Type: interfaces.EventChecklistChanged, Payload: payload}); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to publish checklist event")
	}
}
