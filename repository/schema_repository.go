package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/weaviate/weaviate-go-client/v4/weaviate"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/backup"
	wvmodels "github.com/weaviate/weaviate/entities/models"
)

// ClassInfo summarizes one class of the store schema
type ClassInfo struct {
	Name       string `json:"name"`
	Vectorizer string `json:"vectorizer"`
	Properties int    `json:"properties"`
}

// BackupResult reports the outcome of a backup or restore
type BackupResult struct {
	ID      string   `json:"id"`
	Backend string   `json:"backend"`
	Status  string   `json:"status"`
	Classes []string `json:"classes"`
}

// SchemaRepository manages classes and backups in Weaviate
type SchemaRepository struct {
	client        *weaviate.Client
	backupBackend string
}

// NewSchemaRepository creates a new schema repository. An empty backend
// defaults to s3.
func NewSchemaRepository(client *weaviate.Client, backupBackend string) *SchemaRepository {
	if backupBackend == "" {
		backupBackend = backup.BACKEND_S3
	}
	return &SchemaRepository{client: client, backupBackend: backupBackend}
}

// EnsureSchema creates each missing class. Existing classes are left alone,
// so repeated calls are safe.
func (r *SchemaRepository) EnsureSchema(ctx context.Context) ([]string, error) {
	var created []string
	for _, class := range Classes() {
		exists, err := r.client.Schema().ClassExistenceChecker().WithClassName(class.Class).Do(ctx)
		if err != nil {
			return created, fmt.Errorf("failed to check class %s: %w", class.Class, err)
		}
		if exists {
			continue
		}

		if err := r.client.Schema().ClassCreator().WithClass(class).Do(ctx); err != nil {
			if strings.Contains(strings.ToLower(err.Error()), "already exists") {
				continue
			}
			return created, fmt.Errorf("failed to create class %s: %w", class.Class, err)
		}
		created = append(created, class.Class)
	}
	return created, nil
}

// SchemaInfo lists the classes currently defined in the store
func (r *SchemaRepository) SchemaInfo(ctx context.Context) ([]ClassInfo, error) {
	dump, err := r.client.Schema().Getter().Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get schema: %w", err)
	}

	infos := make([]ClassInfo, 0, len(dump.Classes))
	for _, c := range dump.Classes {
		infos = append(infos, ClassInfo{
			Name:       c.Class,
			Vectorizer: c.Vectorizer,
			Properties: len(c.Properties),
		})
	}
	return infos, nil
}

// Backup snapshots all classes under backupID and waits for completion
func (r *SchemaRepository) Backup(ctx context.Context, backupID string) (*BackupResult, error) {
	resp, err := r.client.Backup().Creator().
		WithIncludeClassNames(AllClasses...).
		WithBackend(r.backupBackend).
		WithBackupID(backupID).
		WithWaitForCompletion(true).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create backup %s: %w", backupID, err)
	}

	result := &BackupResult{ID: backupID, Backend: r.backupBackend, Classes: AllClasses}
	if resp != nil && resp.Status != nil {
		result.Status = *resp.Status
	}
	return result, nil
}

// Restore restores all classes from backupID and waits for completion
func (r *SchemaRepository) Restore(ctx context.Context, backupID string) (*BackupResult, error) {
	resp, err := r.client.Backup().Restorer().
		WithIncludeClassNames(AllClasses...).
		WithBackend(r.backupBackend).
		WithBackupID(backupID).
		WithWaitForCompletion(true).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to restore backup %s: %w", backupID, err)
	}

	result := &BackupResult{ID: backupID, Backend: r.backupBackend, Classes: AllClasses}
	if resp != nil && resp.Status != nil {
		result.Status = *resp.Status
	}
	return result, nil
}

// Classes returns the class definitions for documents, citations and sections
func Classes() []*wvmodels.Class {
	return []*wvmodels.Class{documentClass(), citationClass(), sectionClass()}
}

func documentClass() *wvmodels.Class {
	return &wvmodels.Class{
		Class:       DocumentClass,
		Description: "Legal documents with full text and metadata",
		Vectorizer:  "text2vec-openai",
		ModuleConfig: map[string]interface{}{
			"text2vec-openai": map[string]interface{}{
				"model":      "text-embedding-3-large",
				"dimensions": 3072,
				"type":       "text",
			},
			"generative-openai": map[string]interface{}{
				"model": "gpt-4",
			},
		},
		VectorIndexConfig: map[string]interface{}{
			"distance": "cosine",
			"pq": map[string]interface{}{
				"enabled":   true,
				"segments":  32,
				"centroids": 256,
			},
		},
		Properties: []*wvmodels.Property{
			property("title", "text", "Document title or case name"),
			property("content", "text", "Full document text"),
			property("summary", "text", "Leading excerpt of the document"),
			property("documentType", "text", "Type of legal document"),
			property("caseNumber", "text", "Case or matter number"),
			property("court", "text", "Court"),
			property("parties", "text[]", "Parties involved"),
			property("date", "date", "Document date"),
			property("filePath", "text", "Original file path"),
			property("pageCount", "int", "Estimated number of pages"),
			property("practiceArea", "text[]", "Practice areas"),
			property("jurisdiction", "text", "Legal jurisdiction"),
			property("citations", "text[]", "Legal citations referenced"),
			property("confidentialityLevel", "text", "Confidentiality classification"),
			property("createdAt", "date", "When the document was added"),
			property("lastModified", "date", "Last modification date"),
		},
	}
}

func citationClass() *wvmodels.Class {
	return &wvmodels.Class{
		Class:       CitationClass,
		Description: "Legal citations and case law references",
		Vectorizer:  "text2vec-openai",
		Properties: []*wvmodels.Property{
			property("citation", "text", "Full legal citation"),
			property("caseName", "text", "Case name"),
			property("court", "text", "Court name"),
			property("year", "int", "Year decided"),
			property("holding", "text", "Case holding or principle"),
			property("referencedBy", DocumentClass, "Documents that cite this case"),
		},
	}
}

func sectionClass() *wvmodels.Class {
	return &wvmodels.Class{
		Class:       SectionClass,
		Description: "Sections of legal documents",
		Vectorizer:  "text2vec-openai",
		Properties: []*wvmodels.Property{
			property("content", "text", "Section content"),
			property("sectionTitle", "text", "Section heading"),
			property("pageNumber", "int", "Estimated page number"),
			property("sectionNumber", "text", "Section numbering"),
			property("parentDocument", DocumentClass, "Reference to parent document"),
		},
	}
}

func property(name, dataType, description string) *wvmodels.Property {
	return &wvmodels.Property{
		Name:        name,
		DataType:    []string{dataType},
		Description: description,
	}
}
