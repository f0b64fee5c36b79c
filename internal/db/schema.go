package db

// SchemaSQL contains the database schema initialization SQL.
const SchemaSQL = `
    -- ==========================================================================
    -- PROJECT TABLE
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS project SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS user_id ON project TYPE string;
    DEFINE FIELD IF NOT EXISTS title ON project TYPE string DEFAULT '';
    DEFINE FIELD IF NOT EXISTS status ON project TYPE string DEFAULT 'draft'
        ASSERT $value IN ['draft', 'published'];
    DEFINE FIELD IF NOT EXISTS ai_personality ON project TYPE string DEFAULT 'logical'
        ASSERT $value IN ['logical', 'challenger', 'mentor', 'friend'];
    DEFINE FIELD IF NOT EXISTS attributes ON project TYPE option<object> FLEXIBLE;
    DEFINE FIELD IF NOT EXISTS plan_data ON project TYPE option<object> FLEXIBLE;
    DEFINE FIELD IF NOT EXISTS analysis_scores ON project TYPE option<object> FLEXIBLE;
    DEFINE FIELD IF NOT EXISTS created_at ON project TYPE datetime DEFAULT time::now();
    DEFINE FIELD IF NOT EXISTS updated_at ON project TYPE datetime DEFAULT time::now();

    DEFINE INDEX IF NOT EXISTS project_user ON project FIELDS user_id;
    DEFINE INDEX IF NOT EXISTS project_status ON project FIELDS status;

    -- ==========================================================================
    -- CHAT MESSAGE TABLE (append-only transcript)
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS chat_message SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS project ON chat_message TYPE record<project>;
    DEFINE FIELD IF NOT EXISTS sender ON chat_message TYPE string
        ASSERT $value IN ['user', 'ai'];
    DEFINE FIELD IF NOT EXISTS content ON chat_message TYPE string;
    DEFINE FIELD IF NOT EXISTS created_at ON chat_message TYPE datetime DEFAULT time::now();

    DEFINE INDEX IF NOT EXISTS message_project ON chat_message FIELDS project;
    DEFINE INDEX IF NOT EXISTS message_created ON chat_message FIELDS created_at;
`
