package surreal

// schemaSQL is the schema initialization SQL. The %d placeholder is the
// embedding dimension.
const schemaSQL = `
    DEFINE TABLE IF NOT EXISTS article SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS slug ON article TYPE string;
    DEFINE FIELD IF NOT EXISTS title ON article TYPE string;
    DEFINE FIELD IF NOT EXISTS content ON article TYPE string;
    DEFINE FIELD IF NOT EXISTS focus_keyword ON article TYPE string;
    DEFINE FIELD IF NOT EXISTS meta_description ON article TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS created ON article TYPE datetime DEFAULT time::now();
    DEFINE FIELD IF NOT EXISTS updated ON article TYPE datetime DEFAULT time::now();

    DEFINE INDEX IF NOT EXISTS article_slug ON article FIELDS slug UNIQUE;

    DEFINE TABLE IF NOT EXISTS article_embedding SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS article_id ON article_embedding TYPE string;
    DEFINE FIELD IF NOT EXISTS vector ON article_embedding TYPE array<float>;
    DEFINE FIELD IF NOT EXISTS model ON article_embedding TYPE string;
    DEFINE FIELD IF NOT EXISTS created ON article_embedding TYPE datetime DEFAULT time::now();

    DEFINE INDEX IF NOT EXISTS embedding_article ON article_embedding FIELDS article_id UNIQUE;
    DEFINE INDEX IF NOT EXISTS embedding_vector ON article_embedding FIELDS vector HNSW DIMENSION %d DIST COSINE TYPE F32;
`
