package inspector

const schemaExistsQuery = `select exists (select 1 from pg_namespace where nspname = $1)`

const versionQuery = `select version()`

// enumsQuery returns one row per enum with its labels and sort orders as
// parallel arrays.
const enumsQuery = `select t.typname,
       array_agg(e.enumlabel order by e.enumsortorder),
       array_agg(e.enumsortorder order by e.enumsortorder)
from pg_type t
join pg_enum e on e.enumtypid = t.oid
join pg_namespace n on n.oid = t.typnamespace
where n.nspname = $1
group by t.typname
order by t.typname`

// compositesQuery skips the row types every table carries implicitly.
const compositesQuery = `select t.typname
from pg_type t
join pg_namespace n on n.oid = t.typnamespace
join pg_class c on c.oid = t.typrelid
where n.nspname = $1 and t.typtype = 'c' and c.relkind = 'c'
order by t.typname`

const tablesQuery = `select table_name, table_type
from information_schema.tables
where table_schema = $1 and table_type in ('BASE TABLE', 'VIEW')
order by table_name`

// columnsQuery reports domain columns by their base udt. A *_not_null domain
// only tightens nullability, so array domains keep their element prefix.
const columnsQuery = `select column_name, ordinal_position, data_type, udt_name,
       is_nullable = 'YES' and coalesce(domain_name not like '%\_not\_null', true)
from information_schema.columns
where table_schema = $1 and table_name = $2
order by ordinal_position`

// attributesQuery has no domain_name to consult. A domain attribute reports
// data_type USER-DEFINED with the domain itself as attribute_udt_name.
const attributesQuery = `select attribute_name, ordinal_position, data_type, attribute_udt_name,
       is_nullable = 'YES'
from information_schema.attributes
where udt_schema = $1 and udt_name = $2
order by ordinal_position`

// routinesQuery leaves out routines whose results have no attribute form.
const routinesQuery = `select specific_name, routine_name, data_type, type_udt_name
from information_schema.routines
where routine_schema = $1 and routine_type = 'FUNCTION'
  and data_type not in ('void', 'record', 'trigger', 'event_trigger')
order by routine_name, specific_name`

const parametersQuery = `select specific_name, coalesce(parameter_name, ''), ordinal_position, data_type, udt_name
from information_schema.parameters
where specific_schema = $1 and parameter_mode in ('IN', 'INOUT')
order by specific_name, ordinal_position`
