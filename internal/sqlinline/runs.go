package sqlinline

const QInsertRun = `--sql 3f9c1d52-7a0e-4b8e-9d61-0c2e5b7a4f18
insert into generation_runs(
  id,
  theme_name,
  prompt,
  seed,
  status,
  message,
  output_paths,
  duration_ms,
  created_at
) values (
  $1::uuid,
  $2::text,
  $3::text,
  $4::bigint,
  $5::text,
  $6::text,
  $7::text[],
  $8::bigint,
  $9::timestamptz
);
`

const QRecentRuns = `--sql a2d84e07-5b3c-4f6a-8e19-7c0b3d2e6f94
select
  id::text,
  theme_name,
  prompt,
  seed,
  status,
  message,
  output_paths,
  duration_ms,
  created_at
from generation_runs
order by created_at desc
limit $1::int;
`

const QPruneRuns = `--sql 6e1b0f3a-92d4-4c7e-b5a8-1d3f7e9c2b60
delete from generation_runs
where created_at < $1::timestamptz;
`
